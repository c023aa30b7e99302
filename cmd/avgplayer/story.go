package main

import (
	"github.com/Faultbox/avg-player/internal/script"
)

// Beat indices the demo jumps to.
const (
	beatStation  = 4
	beatHarbor   = 7
	beatEpilogue = 10
)

// demoStory builds the story the binary plays. It walks through linear
// beats, a branch with two routes that meet again, and a closing jump.
func demoStory() (*script.Script, error) {
	t := script.Text
	return script.New([]script.Beat{
		// 0
		{
			Music:      "resources/music/morning.ogg",
			Background: script.Set("resources/images/bg_street.png"),
			Body:       t("The last train of the night had already left when I reached the square."),
		},
		// 1
		{
			Character: script.Set("resources/images/ch_mei.png"),
			Speaker:   t("Mei"),
			Body:      t("You missed it too? I thought I was the only one."),
		},
		// 2
		{
			Speaker: t("Mei"),
			Body:    t("There is a night bus from the station, or we could walk down to the harbor and wait for the first ferry."),
		},
		// 3
		{
			Speaker: t("Mei"),
			Body:    t("Which way?"),
			Choices: []script.Choice{
				{Label: "Take the night bus", Target: beatStation},
				{Label: "Walk to the harbor", Target: beatHarbor},
			},
		},
		// 4
		{
			Background: script.Set("resources/images/bg_station.png"),
			Character:  script.Clear(),
			Body:       t("The station was empty except for a vending machine humming to itself."),
		},
		// 5
		{
			Character: script.Set("resources/images/ch_mei.png"),
			Speaker:   t("Mei"),
			Body:      t("The timetable says forty minutes. Want something warm to drink?"),
		},
		// 6
		{
			Speaker: t("Mei"),
			Body:    t("Forty minutes goes fast when you have company."),
			Next:    script.Index(beatEpilogue),
		},
		// 7
		{
			Music:      "resources/music/waves.ogg",
			Background: script.Set("resources/images/bg_harbor.png"),
			Character:  script.Clear(),
			Body:       t("The harbor smelled of salt and diesel. Lights from the far shore shook on the water."),
		},
		// 8
		{
			Character: script.Set("resources/images/ch_mei.png"),
			Speaker:   t("Mei"),
			Body:      t("I used to come here when I couldn't sleep."),
		},
		// 9
		{
			Speaker: t("Me"),
			Body:    t("Then I'm glad we missed the train."),
		},
		// 10
		{
			Music:      "resources/music/morning.ogg",
			Background: script.Set("resources/images/bg_dawn.png"),
			Character:  script.Clear(),
			Body:       t("By the time the sky turned grey, neither of us was in a hurry to get home."),
		},
		// 11
		{
			Background: script.Clear(),
			Body:       t("- END -"),
		},
	})
}
