package admin

import (
	"rewards/service"

	"github.com/bwmarrin/discordgo"
)

// Feature hosts the /admin command group. Every subcommand resolves the caller
// once through the role checker and refuses non-admins.
type Feature struct {
	ledgerService     service.LedgerService
	withdrawalService service.WithdrawalService
	activityService   service.ActivityService
	roleChecker       service.RoleChecker
	pageSize          int
}

func New(ledgerService service.LedgerService, withdrawalService service.WithdrawalService, activityService service.ActivityService, roleChecker service.RoleChecker, pageSize int) *Feature {
	return &Feature{
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
		activityService:   activityService,
		roleChecker:       roleChecker,
		pageSize:          pageSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAdmin(s, i)
}
