package common

import (
	"errors"
	"fmt"
	"strings"

	"rewards/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromServiceError translates a service error into a BotError. Known error kinds
// become user errors; anything else is a system error.
func FromServiceError(err error, logMessage string) *BotError {
	var userMessage string
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		userMessage = "Insufficient balance. " + detailAfter(err, models.ErrInsufficientBalance)
	case errors.Is(err, models.ErrValidation):
		userMessage = "Invalid input. " + detailAfter(err, models.ErrValidation)
	case errors.Is(err, models.ErrNotFound):
		userMessage = "Not found. " + detailAfter(err, models.ErrNotFound)
	case errors.Is(err, models.ErrInvalidTransition):
		userMessage = "That request cannot move to this status. " + detailAfter(err, models.ErrInvalidTransition)
	case errors.Is(err, models.ErrPersistenceConflict):
		userMessage = "Someone else updated this at the same time. Please try again."
	default:
		return NewSystemError(err, logMessage)
	}

	return &BotError{
		UserMessage: strings.TrimSpace(userMessage),
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// detailAfter returns the text following kind's message in err, if any
func detailAfter(err error, kind error) string {
	msg := err.Error()
	idx := strings.Index(msg, kind.Error())
	if idx < 0 {
		return ""
	}
	detail := strings.TrimPrefix(msg[idx+len(kind.Error()):], ":")
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return ""
	}
	return strings.ToUpper(detail[:1]) + detail[1:] + "."
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and sends the user an appropriate message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"command": i.ApplicationCommandData().Name,
	}

	message := "Something went wrong. Please try again later."
	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["error"] = botErr.Error()
		fields["user_message"] = botErr.UserMessage
		fields["context"] = botErr.Context
		message = botErr.UserMessage
		if botErr.Err == nil || isUserFacing(botErr.Err) {
			log.WithFields(fields).Warn(botErr.LogMessage)
		} else {
			log.WithFields(fields).Error(botErr.LogMessage)
		}
	} else {
		fields["error"] = err.Error()
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}

func isUserFacing(err error) bool {
	return errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInsufficientBalance) ||
		errors.Is(err, models.ErrInvalidTransition)
}
