package bridge

import "github.com/disgoorg/disgo/discord"

const (
	commandSora    = "sora"
	commandSoraPro = "sora-pro"
)

// Supported Sora parameter values, surfaced as option choices.
var (
	sizeChoices = []discord.ApplicationCommandOptionChoiceString{
		{Name: "1280x720 (landscape)", Value: "1280x720"},
		{Name: "720x1280 (portrait)", Value: "720x1280"},
		{Name: "1792x1024 (landscape, pro)", Value: "1792x1024"},
		{Name: "1024x1792 (portrait, pro)", Value: "1024x1792"},
	}
	secondsChoices = []discord.ApplicationCommandOptionChoiceString{
		{Name: "4 seconds", Value: "4"},
		{Name: "8 seconds", Value: "8"},
		{Name: "12 seconds", Value: "12"},
	}
)

// commands returns the application commands the bot registers at startup.
func commands() []discord.ApplicationCommandCreate {
	options := []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "prompt",
			Description: "Describe the video you want.",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "size",
			Description: "Output resolution.",
			Choices:     sizeChoices,
		},
		discord.ApplicationCommandOptionString{
			Name:        "seconds",
			Description: "Clip length.",
			Choices:     secondsChoices,
		},
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        commandSora,
			Description: "Generate a Sora 2 video from a prompt.",
			Options:     options,
		},
		discord.SlashCommandCreate{
			Name:        commandSoraPro,
			Description: "Generate a Sora 2 Pro video from a prompt.",
			Options:     options,
		},
	}
}
