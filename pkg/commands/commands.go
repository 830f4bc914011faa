package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
)

func tournamentNameOption() discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        "name",
		Description: "Tournament name",
		Required:    true,
		MaxLength:   json.Ptr(64),
	}
}

func playerOption(name string, description string, required bool) discord.ApplicationCommandOptionUser {
	return discord.ApplicationCommandOptionUser{
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// Commands are synced to the configured guild on startup.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "help",
		Description: "Show the available commands",
	},
	discord.SlashCommandCreate{
		Name:        "register",
		Description: "Register a player profile",
		Options: []discord.ApplicationCommandOption{
			playerOption("player", "The player to register", true),
		},
	},
	discord.SlashCommandCreate{
		Name:        "profile",
		Description: "Show a player's ELO, wins and losses",
		Options: []discord.ApplicationCommandOption{
			playerOption("player", "The player to show, defaults to you", false),
		},
	},
	discord.SlashCommandCreate{
		Name:        "leaderboard",
		Description: "Show the top players by ELO",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "limit",
				Description: "How many players to show",
				MinValue:    json.Ptr(1),
				MaxValue:    json.Ptr(25),
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "elo",
		Description: "Manage player ratings (administrators only)",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set",
				Description: "Set a player's ELO",
				Options: []discord.ApplicationCommandOption{
					playerOption("player", "The player to update", true),
					discord.ApplicationCommandOptionInt{
						Name:        "value",
						Description: "The new ELO",
						Required:    true,
						MinValue:    json.Ptr(0),
						MaxValue:    json.Ptr(10000),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "reset",
				Description: "Reset a player's ELO to 1200",
				Options: []discord.ApplicationCommandOption{
					playerOption("player", "The player to reset", true),
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "queue",
		Description: "Lobby queue",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "start",
				Description: "Start a new queue with join/leave buttons",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "show",
				Description: "Show the current queue",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "join",
				Description: "Join the queue",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "leave",
				Description: "Leave the queue",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "tournament",
		Description: "Tournaments",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "create",
				Description: "Create a tournament",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "addteam",
				Description: "Add a team to a tournament",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
					discord.ApplicationCommandOptionString{
						Name:        "team",
						Description: "Team name",
						Required:    true,
						MaxLength:   json.Ptr(64),
					},
					playerOption("player1", "First player", true),
					playerOption("player2", "Second player", false),
					playerOption("player3", "Third player", false),
					playerOption("player4", "Fourth player", false),
					playerOption("player5", "Fifth player", false),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "teams",
				Description: "Show the teams of a tournament",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "start",
				Description: "Start a tournament and pair the first round",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "bracket",
				Description: "Show the bracket of a tournament",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "result",
				Description: "Report the winner of a match",
				Options: []discord.ApplicationCommandOption{
					tournamentNameOption(),
					discord.ApplicationCommandOptionInt{
						Name:        "match",
						Description: "Match id as shown in the bracket",
						Required:    true,
						MinValue:    json.Ptr(1),
					},
					discord.ApplicationCommandOptionString{
						Name:        "winner",
						Description: "Exact name of the winning team",
						Required:    true,
					},
				},
			},
		},
	},
}
