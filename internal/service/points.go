package service

import (
	"sort"

	"github.com/sva-utd/portal-api/internal/domain/model"
)

// Summarize aggregates a user's points transactions: APPLIED deltas count
// toward the total, PENDING ones toward the pending figure, REVOKED ones
// toward nothing.
func Summarize(userID string, txs []model.PointsTransaction) model.PointsSummary {
	var summary model.PointsSummary
	for _, tx := range txs {
		if tx.UserID != userID {
			continue
		}
		switch tx.State {
		case model.PointsApplied:
			summary.PointsTotal += tx.Delta
		case model.PointsPending:
			summary.PointsPending += tx.Delta
		}
	}
	return summary
}

// Rank joins users with their points summaries and orders them for the
// member roster: admins first, then points descending. The input slices
// are not modified.
func Rank(users []model.User, txs []model.PointsTransaction) []model.UserWithPoints {
	ranked := make([]model.UserWithPoints, 0, len(users))
	for _, u := range users {
		ranked = append(ranked, model.UserWithPoints{
			User:          u,
			PointsSummary: Summarize(u.ID, txs),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Role != b.Role {
			return a.Role.IsAdmin()
		}
		return a.PointsTotal > b.PointsTotal
	})
	return ranked
}
