// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/pixelterm-box/main.go
// Summary: Demo program under test: prints a bordered box, optionally with emoji.

// pixelterm-box exists so the end-to-end tests have a real program whose
// layout engine does its own width accounting. lipgloss is exactly the kind
// of library whose emoji column math must survive the round trip through
// the PTY and the browser-side renderer.
package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func main() {
	text := flag.String("text", "hello, pixelterm", "box content")
	emoji := flag.Bool("emoji", false, "append an emoji to the content")
	width := flag.Int("width", 24, "inner box width in columns")
	flag.Parse()

	content := *text
	if *emoji {
		content += " 🦊"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Width(*width).
		Render(content)

	fmt.Println(box)
}
