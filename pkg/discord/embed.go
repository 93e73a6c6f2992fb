package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"localebatch/internal/domain"
	"localebatch/internal/domain/entities"
)

const (
	colorSuccess = 0x57F287
	colorPartial = 0xFEE75C
	colorFailure = 0xED4245

	// Discord rejects embed field values above this length.
	maxFieldValue = 1024
)

func embedColor(report *entities.Report) int {
	switch {
	case report.Failed() == 0:
		return colorSuccess
	case report.Succeeded() == 0:
		return colorFailure
	default:
		return colorPartial
	}
}

func formatCounts(report *entities.Report) string {
	return fmt.Sprintf("%d/%d", report.Succeeded(), len(report.Outcomes))
}

// BuildReportEmbed summarizes a finished run: successful languages, and each
// failed language with the reason it failed.
func BuildReportEmbed(report *entities.Report) *discordgo.MessageEmbed {
	var ok, failed []string
	for _, o := range report.Outcomes {
		switch o.Status {
		case domain.StatusSucceeded:
			ok = append(ok, o.Language.Code)
		case domain.StatusFailed:
			failed = append(failed, fmt.Sprintf("%s (%s)", o.Language.Code, ErrorLabel(o.ErrorCode)))
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Translated", Value: formatList(ok), Inline: true},
	}
	if len(failed) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Failed", Value: formatList(failed), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🌐 %s: %s languages translated", report.Job, formatCounts(report)),
		Description: fmt.Sprintf("Run `%s` finished in %s.", report.RunID, FormatElapsed(report.StartedAt, report.FinishedAt)),
		Color:       embedColor(report),
		Fields:      fields,
		Timestamp:   report.FinishedAt.Format(time.RFC3339),
	}
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	s := strings.Join(items, ", ")
	if len(s) > maxFieldValue {
		s = s[:maxFieldValue-3] + "..."
	}
	return s
}
