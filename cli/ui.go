package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Dosada05/bracket-board/models"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleWinner = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// directoryTable renders participants as a bordered table; champion marks the
// row of the bracket winner, if any.
func directoryTable(title string, participants []models.ParticipantInfo, championID int) string {
	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, []string{strconv.Itoa(p.DisplayNumber), p.Name, p.Region, strconv.Itoa(p.ParticipantID)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("#", "Participant", "Region", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(participants) && participants[row].ParticipantID == championID {
				return styleWinner.Padding(0, 1)
			}
			if col == 0 {
				return styleNumber.Padding(0, 1)
			}
			if col == 3 {
				return styleDim.Padding(0, 1)
			}
			return base
		})

	return styleTitle.Render(title) + "\n" + t.Render() + "\n"
}
