package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp_Commands(t *testing.T) {
	a := newApp()

	var names []string
	for _, cmd := range a.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{
		"quickstart", "snapshot", "email", "chat", "keywords", "expand", "article", "settings", "runs", "serve",
	}, names)

	settings := a.Command("settings")
	if assert.NotNil(t, settings) {
		assert.NotNil(t, settings.Command("show"))
		assert.NotNil(t, settings.Command("set"))
		assert.NotNil(t, settings.Command("get"))
		assert.NotNil(t, settings.Command("put"))
	}
}

func TestNewApp_Quickstart(t *testing.T) {
	assert.NoError(t, newApp().Run([]string{"lpa", "quickstart"}))
}
