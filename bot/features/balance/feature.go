package balance

import (
	"rewards/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	ledgerService service.LedgerService
}

func New(ledgerService service.LedgerService) *Feature {
	return &Feature{
		ledgerService: ledgerService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}
