package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxRequest describes a transaction to sign and broadcast. A nil To creates a contract.
type TxRequest struct {
	Label    string
	To       *common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64 // 0 estimates
}

// TxResult is a confirmed transaction
type TxResult struct {
	Label           string
	Hash            common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress common.Address
}

// Calldata is an encoded call prepared for a multisig instead of being sent
type Calldata struct {
	Label string
	To    common.Address
	Data  hexutil.Bytes
}
