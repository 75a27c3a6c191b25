package jobpost

import (
	"math"
	"sort"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

// ===============================
// Matching Engine
// ===============================

// MatchScore pontua a sobreposição de skills: round(100 · |∩| / |required|).
// Sempre em [0,100]; monotônico na sobreposição.
func MatchScore(caregiverSkills, required []string) int {
	if len(required) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(caregiverSkills))
	for _, s := range caregiverSkills {
		set[s] = struct{}{}
	}

	overlap := 0
	for _, s := range required {
		if _, ok := set[s]; ok {
			overlap++
		}
	}

	return int(math.Round(float64(overlap) / float64(len(required)) * 100))
}

type ScoredCaregiver struct {
	Caregiver  models.Caregiver `json:"caregiver"`
	MatchScore int              `json:"match_score"`
}

// RankCaregivers ordena por score decrescente (estável — empates mantêm a
// ordem natural do resultado) e devolve os top `limit`
func RankCaregivers(pool []models.Caregiver, required []string, limit int) []ScoredCaregiver {
	scored := make([]ScoredCaregiver, 0, len(pool))
	for _, cg := range pool {
		scored = append(scored, ScoredCaregiver{
			Caregiver:  cg,
			MatchScore: MatchScore(cg.Skills, required),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// SkillsIntersect responde se o cuidador cobre ao menos uma skill exigida
func SkillsIntersect(caregiverSkills, required []string) bool {
	set := make(map[string]struct{}, len(caregiverSkills))
	for _, s := range caregiverSkills {
		set[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
