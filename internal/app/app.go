package app

import (
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.Selector

	// Build
	CompileContracts  *usecase.CompileContracts
	GenerateSelectors *usecase.GenerateSelectors
	ExportABIs        *usecase.ExportABIs

	// Deployment
	DeployFactory         *usecase.DeployFactory
	DeployProtocol        *usecase.DeployProtocol
	DeployFixedFeeCond    *usecase.DeployFixedFeeCond
	RedeployWhitelistCond *usecase.RedeployWhitelistCond
	DeployPresaleSigCond  *usecase.DeployPresaleSigCond
	DeployImplementations *usecase.DeployImplementations
	DeployReactions       *usecase.DeployReactions
	UpdateRouter          *usecase.UpdateRouter

	// Administration
	Admin                 *usecase.Admin
	SyncCommunityAccounts *usecase.SyncCommunityAccounts

	// Inspection
	ShowRouter      *usecase.ShowRouter
	ShowCreate2     *usecase.ShowCreate2
	ManageAddresses *usecase.ManageAddresses
	ListNetworks    *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.Selector,
	compileContracts *usecase.CompileContracts,
	generateSelectors *usecase.GenerateSelectors,
	exportABIs *usecase.ExportABIs,
	deployFactory *usecase.DeployFactory,
	deployProtocol *usecase.DeployProtocol,
	deployFixedFeeCond *usecase.DeployFixedFeeCond,
	redeployWhitelistCond *usecase.RedeployWhitelistCond,
	deployPresaleSigCond *usecase.DeployPresaleSigCond,
	deployImplementations *usecase.DeployImplementations,
	deployReactions *usecase.DeployReactions,
	updateRouter *usecase.UpdateRouter,
	admin *usecase.Admin,
	syncCommunityAccounts *usecase.SyncCommunityAccounts,
	showRouter *usecase.ShowRouter,
	showCreate2 *usecase.ShowCreate2,
	manageAddresses *usecase.ManageAddresses,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:                cfg,
		Selector:              selector,
		CompileContracts:      compileContracts,
		GenerateSelectors:     generateSelectors,
		ExportABIs:            exportABIs,
		DeployFactory:         deployFactory,
		DeployProtocol:        deployProtocol,
		DeployFixedFeeCond:    deployFixedFeeCond,
		RedeployWhitelistCond: redeployWhitelistCond,
		DeployPresaleSigCond:  deployPresaleSigCond,
		DeployImplementations: deployImplementations,
		DeployReactions:       deployReactions,
		UpdateRouter:          updateRouter,
		Admin:                 admin,
		SyncCommunityAccounts: syncCommunityAccounts,
		ShowRouter:            showRouter,
		ShowCreate2:           showCreate2,
		ManageAddresses:       manageAddresses,
		ListNetworks:          listNetworks,
	}, nil
}
