package jobpost

import (
	"context"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
)

// topMatches limita o ranking devolvido às famílias
const topMatches = 5

type MatchCaregivers struct {
	repo domain.Repository
}

func NewMatchCaregivers(repo domain.Repository) *MatchCaregivers {
	return &MatchCaregivers{repo: repo}
}

// Execute devolve os melhores cuidadores elegíveis para o job post,
// pontuados pela sobreposição de skills. Só o dono vê o ranking.
func (uc *MatchCaregivers) Execute(
	ctx context.Context,
	familyID uint,
	jobPostID uint,
) ([]domain.ScoredCaregiver, error) {

	jp, err := uc.repo.GetForFamily(ctx, jobPostID, familyID)
	if err != nil {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}

	pool, err := uc.repo.ListEligibleCaregivers(ctx, jp.SkillRequired)
	if err != nil {
		return nil, err
	}

	return domain.RankCaregivers(pool, jp.SkillRequired, topMatches), nil
}
