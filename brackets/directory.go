package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-board/models"
)

// SortedDirectory returns the directory ordered by display number.
func SortedDirectory(dir map[int]models.ParticipantInfo) []models.ParticipantInfo {
	out := make([]models.ParticipantInfo, 0, len(dir))
	for _, info := range dir {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayNumber < out[j].DisplayNumber
	})
	return out
}
