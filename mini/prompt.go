// Package mini implements a lightweight, minimalist interface for transcript navigation and playback.
package mini

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/recap-cli/recap/color"
	"github.com/recap-cli/recap/icon"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/util"
)

// bind is a fixed menu action rendered alongside dynamic menu entries.
type bind struct {
	name string
}

func (b *bind) String() string {
	return b.name
}

func (b *bind) eq(other *bind) bool {
	return b == other
}

var (
	quit      = &bind{"Quit"}
	back      = &bind{"Back"}
	playPause = &bind{"Play / Pause"}
	forward   = &bind{"Skip forward"}
	rewind    = &bind{"Skip backward"}
	jump      = &bind{"Jump to segment"}
	search    = &bind{"Search transcript"}
)

func title(t string) {
	fmt.Println(style.Tag(color.New("230"), color.New("62"))(t))
}

func fail(t string) {
	fmt.Println(icon.Get(icon.Fail) + " " + style.Fg(color.Red)(t))
}

func progress(t string) (eraser func()) {
	return util.PrintErasable(icon.Get(icon.Progress) + " " + style.Faint(t))
}

// menu prompts with dynamic items first and fixed binds after them.
// Returns the matched bind, or the chosen item when no bind matched.
func menu[T fmt.Stringer](items []T, binds ...*bind) (*bind, T, error) {
	var zero T

	if len(binds) == 0 {
		binds = []*bind{quit}
	}

	options := make([]string, 0, len(items)+len(binds))
	for _, item := range items {
		options = append(options, style.Truncate(truncateAt)(item.String()))
	}
	for _, b := range binds {
		options = append(options, b.String())
	}

	var picked int
	prompt := &survey.Select{
		Options:  options,
		PageSize: 10,
	}

	if err := survey.AskOne(prompt, &picked); err != nil {
		return nil, zero, err
	}

	if picked < len(items) {
		return nil, items[picked], nil
	}

	return binds[picked-len(items)], zero, nil
}

type input struct {
	value string
}

// getInput prompts for a line until validate accepts it.
func getInput(validate func(string) bool) (*input, error) {
	var value string

	err := survey.AskOne(&survey.Input{Message: ">"}, &value, survey.WithValidator(func(ans interface{}) error {
		s, _ := ans.(string)
		if !validate(s) {
			return fmt.Errorf("invalid input")
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return &input{value: value}, nil
}
