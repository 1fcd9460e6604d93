package forge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// DefaultVanityPrefix is mined for when no prefix is configured
const DefaultVanityPrefix = "000000"

// CastSaltMiner mines vanity CREATE2 salts with cast create2
type CastSaltMiner struct {
	log         *slog.Logger
	projectRoot string
	binary      string
}

// NewCastSaltMiner creates a new salt miner
func NewCastSaltMiner(cfg *config.RuntimeConfig, log *slog.Logger) *CastSaltMiner {
	return &CastSaltMiner{
		log:         log.With("component", "CastSaltMiner"),
		projectRoot: cfg.ProjectRoot,
		binary:      "cast",
	}
}

// Mine searches a salt that deploys initCode through factory to an address
// starting with prefix
func (m *CastSaltMiner) Mine(ctx context.Context, initCode []byte, factory common.Address, prefix string) (*domain.Create2Record, error) {
	if prefix == "" {
		prefix = DefaultVanityPrefix
	}
	args := []string{
		"create2",
		"--starts-with", strings.TrimPrefix(prefix, "0x"),
		"-i", hexutil.Encode(initCode),
		"--deployer", factory.Hex(),
	}

	cmd := exec.CommandContext(ctx, m.binary, args...)
	cmd.Dir = m.projectRoot
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSaltMinerUnavailable, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("cast create2 failed: %w\n%s", err, exitErr.Stderr)
		}
		return nil, err
	}

	addr, salt, err := parseCreate2Output(string(output))
	if err != nil {
		m.log.Debug("unexpected cast output", "output", string(output))
		return nil, err
	}

	rec := &domain.Create2Record{InitCode: initCode, Salt: salt, Address: addr}
	if err := rec.Verify(factory); err != nil {
		return nil, err
	}
	return rec, nil
}

// parseCreate2Output reads the Address and Salt lines printed by cast create2.
// The salt line has the form "Salt: <decimal> (0x<hex>)".
func parseCreate2Output(output string) (common.Address, domain.Salt, error) {
	var (
		addr    common.Address
		salt    domain.Salt
		gotAddr bool
		gotSalt bool
	)

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Address:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "Address:"))
			if !common.IsHexAddress(raw) {
				return addr, salt, fmt.Errorf("%w: bad address %q", domain.ErrSaltMinerUnavailable, raw)
			}
			addr = common.HexToAddress(raw)
			gotAddr = true
		case strings.HasPrefix(line, "Salt:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "Salt:"))
			open := strings.Index(raw, "(")
			end := strings.LastIndex(raw, ")")
			if open < 0 || end < open {
				return addr, salt, fmt.Errorf("%w: bad salt %q", domain.ErrSaltMinerUnavailable, raw)
			}
			parsed, err := domain.ParseSalt(raw[open+1 : end])
			if err != nil {
				return addr, salt, fmt.Errorf("%w: %v", domain.ErrSaltMinerUnavailable, err)
			}
			salt = parsed
			gotSalt = true
		}
	}

	if !gotAddr || !gotSalt {
		return addr, salt, fmt.Errorf("%w: no address and salt in cast output", domain.ErrSaltMinerUnavailable)
	}
	return addr, salt, nil
}

var _ usecase.SaltMiner = (*CastSaltMiner)(nil)
