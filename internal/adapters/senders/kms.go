package senders

import (
	"bytes"
	"context"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

const kmsTimeout = 30 * time.Second

var (
	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// kmsAPI is the part of the KMS client the signer calls
type kmsAPI interface {
	GetPublicKey(ctx context.Context, in *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, in *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

type ecdsaSignature struct {
	R, S *big.Int
}

// KMSSigner signs with an ECC_SECG_P256K1 key held in AWS KMS. The public
// key is fetched once, on first use.
type KMSSigner struct {
	client kmsAPI
	keyID  string
	log    *slog.Logger

	once    sync.Once
	pubkey  []byte // uncompressed, 65 bytes
	address common.Address
	initErr error
}

// NewKMSSigner creates a KMS signer. Static credentials are used when
// given, otherwise the default AWS credential chain.
func NewKMSSigner(cfg config.SignerConfig, log *slog.Logger) (*KMSSigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.KMSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.KMSRegion))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return newKMSSigner(kms.NewFromConfig(awsCfg), cfg.KMSKeyID, log), nil
}

func newKMSSigner(client kmsAPI, keyID string, log *slog.Logger) *KMSSigner {
	return &KMSSigner{client: client, keyID: keyID, log: log.With("signer", "kms")}
}

func (s *KMSSigner) init(ctx context.Context) error {
	s.once.Do(func() {
		out, err := s.client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(s.keyID)})
		if err != nil {
			s.initErr = fmt.Errorf("failed to get kms public key: %w", err)
			return
		}

		var info subjectPublicKeyInfo
		if _, err := asn1.Unmarshal(out.PublicKey, &info); err != nil {
			s.initErr = fmt.Errorf("failed to parse kms public key: %w", err)
			return
		}
		pub, err := crypto.UnmarshalPubkey(info.PublicKey.Bytes)
		if err != nil {
			s.initErr = fmt.Errorf("kms key is not a secp256k1 key: %w", err)
			return
		}
		s.pubkey = info.PublicKey.Bytes
		s.address = crypto.PubkeyToAddress(*pub)
	})
	return s.initErr
}

// Address returns the address of the KMS key. A failed public key lookup
// is remembered and returned on every call.
func (s *KMSSigner) Address(ctx context.Context) (common.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, kmsTimeout)
	defer cancel()
	if err := s.init(ctx); err != nil {
		s.log.Error("kms signer unavailable", "error", err)
		return common.Address{}, err
	}
	return s.address, nil
}

// SignTx signs the transaction digest in KMS and turns the DER signature
// into an Ethereum [R || S || V] signature
func (s *KMSSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	signer := types.LatestSignerForChainID(chainID)
	digest := signer.Hash(tx)

	out, err := s.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          digest.Bytes(),
		MessageType:      kmstypes.MessageTypeDigest,
		SigningAlgorithm: kmstypes.SigningAlgorithmSpecEcdsaSha256,
	})
	if err != nil {
		return nil, fmt.Errorf("kms sign: %w", err)
	}

	sig, err := s.ethSignature(digest.Bytes(), out.Signature)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(signer, sig)
}

// ethSignature normalizes s to the lower half of the curve order and finds
// the recovery id that yields the KMS public key
func (s *KMSSigner) ethSignature(digest, der []byte) ([]byte, error) {
	var parsed ecdsaSignature
	if _, err := asn1.Unmarshal(der, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse kms signature: %w", err)
	}
	if parsed.R == nil || parsed.S == nil {
		return nil, errors.New("kms signature is missing r or s")
	}

	sVal := parsed.S
	if sVal.Cmp(secp256k1HalfN) > 0 {
		sVal = new(big.Int).Sub(secp256k1N, sVal)
	}

	sig := make([]byte, crypto.SignatureLength)
	parsed.R.FillBytes(sig[:32])
	sVal.FillBytes(sig[32:64])

	for v := byte(0); v < 2; v++ {
		sig[64] = v
		recovered, err := crypto.Ecrecover(digest, sig)
		if err == nil && bytes.Equal(recovered, s.pubkey) {
			return sig, nil
		}
	}
	return nil, errors.New("kms signature does not recover to the key's public key")
}

var _ usecase.Signer = (*KMSSigner)(nil)
