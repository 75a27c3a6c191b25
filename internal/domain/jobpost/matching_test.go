package jobpost

import (
	"testing"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

func TestMatchScore(t *testing.T) {
	required := []string{"medical_care", "mobility_assistance"}

	cases := []struct {
		name   string
		skills []string
		want   int
	}{
		{"half overlap", []string{"medical_care"}, 50},
		{"full overlap plus extra", []string{"medical_care", "mobility_assistance", "companionship"}, 100},
		{"no overlap", []string{"cooking"}, 0},
		{"empty skills", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchScore(tc.skills, required); got != tc.want {
				t.Errorf("MatchScore(%v) = %d, want %d", tc.skills, got, tc.want)
			}
		})
	}
}

func TestMatchScoreBoundsAndMonotonicity(t *testing.T) {
	required := []string{"a", "b", "c", "d", "e"}

	prev := -1
	skills := []string{}
	for _, s := range required {
		skills = append(skills, s)
		score := MatchScore(skills, required)

		if score < 0 || score > 100 {
			t.Fatalf("score out of range: %d", score)
		}
		if score < prev {
			t.Fatalf("score decreased with more overlap: %d -> %d", prev, score)
		}
		prev = score
	}

	if prev != 100 {
		t.Errorf("full overlap score = %d, want 100", prev)
	}
}

func TestRankCaregivers(t *testing.T) {
	required := []string{"medical_care", "mobility_assistance"}

	pool := []models.Caregiver{
		{ID: 1, Skills: models.StringList{"medical_care"}},
		{ID: 2, Skills: models.StringList{"medical_care", "mobility_assistance", "companionship"}},
		{ID: 3, Skills: models.StringList{"cooking"}},
	}

	ranked := RankCaregivers(pool, required, 5)
	if len(ranked) != 3 {
		t.Fatalf("len = %d", len(ranked))
	}

	if ranked[0].Caregiver.ID != 2 || ranked[0].MatchScore != 100 {
		t.Errorf("first = caregiver %d score %d", ranked[0].Caregiver.ID, ranked[0].MatchScore)
	}
	if ranked[1].Caregiver.ID != 1 || ranked[1].MatchScore != 50 {
		t.Errorf("second = caregiver %d score %d", ranked[1].Caregiver.ID, ranked[1].MatchScore)
	}
}

func TestRankCaregiversTopFiveStableTies(t *testing.T) {
	required := []string{"x"}

	pool := make([]models.Caregiver, 7)
	for i := range pool {
		pool[i] = models.Caregiver{ID: uint(i + 1), Skills: models.StringList{"x"}}
	}

	ranked := RankCaregivers(pool, required, 5)
	if len(ranked) != 5 {
		t.Fatalf("len = %d, want 5", len(ranked))
	}

	// empate total: ordem natural preservada
	for i, sc := range ranked {
		if sc.Caregiver.ID != uint(i+1) {
			t.Errorf("position %d = caregiver %d", i, sc.Caregiver.ID)
		}
	}
}

func TestSkillsIntersect(t *testing.T) {
	if !SkillsIntersect([]string{"a", "b"}, []string{"b", "c"}) {
		t.Error("expected intersection")
	}
	if SkillsIntersect([]string{"a"}, []string{"b"}) {
		t.Error("unexpected intersection")
	}
}
