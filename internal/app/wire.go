//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/opensocial-protocol/osp-cli/internal/adapters"
	"github.com/opensocial-protocol/osp-cli/internal/config"
	"github.com/opensocial-protocol/osp-cli/internal/logging"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewCompileContracts,
		usecase.NewGenerateSelectors,
		usecase.NewExportABIs,
		usecase.NewCreate2Deployer,
		usecase.NewDeployFactory,
		usecase.NewDeployProtocol,
		usecase.NewDeployFixedFeeCond,
		usecase.NewRedeployWhitelistCond,
		usecase.NewDeployPresaleSigCond,
		usecase.NewDeployImplementations,
		usecase.NewDeployReactions,
		usecase.NewUpdateRouter,
		usecase.NewAdmin,
		usecase.NewSyncCommunityAccounts,
		usecase.NewShowRouter,
		usecase.NewShowCreate2,
		usecase.NewManageAddresses,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
