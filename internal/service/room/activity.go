package room

import (
	"strings"
	"time"

	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/internal/repository/roster"
)

const systemName = "System"

// ActivityLine is one entry of the room's activity log.
type ActivityLine struct {
	At     time.Time `json:"at"`
	Avatar string    `json:"avatar"`
	Name   string    `json:"name"`
	Text   string    `json:"text"`
	Detail string    `json:"detail,omitempty"`
}

// activity is a bounded log of what happened in the room, oldest first.
type activity struct {
	lines []ActivityLine
	size  int
}

func newActivity(size int) *activity {
	if size < 1 {
		size = 1
	}

	return &activity{size: size}
}

// add records template with every "{}" replaced by the name of src. A nil src is
// attributed to the system.
func (a *activity) add(at time.Time, src *roster.Entry, template, detail string) ActivityLine {
	line := ActivityLine{
		At:     at,
		Avatar: domain.Badge(domain.BadgeRainbow).Name,
		Name:   systemName,
		Detail: detail,
	}
	if src != nil {
		line.Avatar = domain.Badge(src.Avatar()).Name
		line.Name = src.Name()
	}
	line.Text = strings.ReplaceAll(template, "{}", line.Name)

	if len(a.lines) == a.size {
		copy(a.lines, a.lines[1:])
		a.lines = a.lines[:len(a.lines)-1]
	}
	a.lines = append(a.lines, line)

	return line
}

func (a *activity) snapshot() []ActivityLine {
	return append([]ActivityLine(nil), a.lines...)
}
