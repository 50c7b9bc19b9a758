package withdrawals

import (
	"rewards/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	withdrawalService service.WithdrawalService
	ledgerService     service.LedgerService
	pageSize          int
}

func New(withdrawalService service.WithdrawalService, ledgerService service.LedgerService, pageSize int) *Feature {
	return &Feature{
		withdrawalService: withdrawalService,
		ledgerService:     ledgerService,
		pageSize:          pageSize,
	}
}

// HandleWithdraw handles /withdraw
func (f *Feature) HandleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWithdraw(s, i)
}

// HandleList handles /withdrawals
func (f *Feature) HandleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleList(s, i)
}
