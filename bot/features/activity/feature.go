package activity

import (
	"rewards/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	activityService service.ActivityService
	pageSize        int
}

func New(activityService service.ActivityService, pageSize int) *Feature {
	return &Feature{
		activityService: activityService,
		pageSize:        pageSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleActivity(s, i)
}
