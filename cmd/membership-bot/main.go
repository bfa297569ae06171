// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package main is the entry point for the membership-bot CLI.
package main

import "github.com/similigh/membership-bot/cmd/membership-bot/commands"

func main() {
	commands.Execute()
}
