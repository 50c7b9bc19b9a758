package activity

import (
	"context"

	"rewards/bot/common"
	"rewards/models"
	"rewards/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleActivity(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	limit := f.pageSize
	if opt, ok := common.OptionMap(i.ApplicationCommandData().Options)["limit"]; ok {
		limit = min(int(opt.IntValue()), common.MaxEmbedFields)
	}

	filter := models.ActivityFilter{
		UserID: common.InteractionUserID(i),
		Limit:  limit,
	}
	entries, err := service.CollectActivity(f.activityService.Query(ctx, filter))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to query activity"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildActivityEmbed("📜 Recent activity", entries), true); err != nil {
		log.Errorf("Error responding to activity command: %v", err)
	}
}
