package stats

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pongarena/play/internal/models"
)

// MatchRecord is one finished match. Team payloads are stored as JSON
// blobs; the per-player rows exist for the history lookup only.
type MatchRecord struct {
	ID             string `gorm:"primaryKey"`
	Mode           string
	TeamA          string // JSON models.Team
	TeamB          string // JSON models.Team
	Winner         string
	TournamentCode string
	ByForfeit      bool
	FinishedAt     time.Time `gorm:"index"`
}

type MatchParticipant struct {
	ID       uint   `gorm:"primaryKey"`
	MatchID  string `gorm:"index"`
	PlayerID string `gorm:"index"`
}

type TournamentResult struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"index"`
	ChampionID string
	FinishedAt time.Time
}

// GormRecorder persists results and applies trophy math against the
// identity rows in the same database.
type GormRecorder struct {
	DB     *gorm.DB
	logger *zap.Logger
}

func NewGormRecorder(db *gorm.DB, logger *zap.Logger) (*GormRecorder, error) {
	if err := db.AutoMigrate(&MatchRecord{}, &MatchParticipant{}, &TournamentResult{}); err != nil {
		return nil, err
	}
	return &GormRecorder{DB: db, logger: logger}, nil
}

func (r *GormRecorder) RecordMatch(result models.MatchResult) error {
	teamA, _ := json.Marshal(result.TeamA)
	teamB, _ := json.Marshal(result.TeamB)

	record := MatchRecord{
		ID:         result.GameID,
		Mode:       result.Mode,
		TeamA:      string(teamA),
		TeamB:      string(teamB),
		Winner:     result.Winner,
		ByForfeit:  result.ByForfeit,
		FinishedAt: result.FinishedAt,
	}
	if result.Tournament != nil {
		record.TournamentCode = result.Tournament.Code
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, p := range append(result.TeamA.Players, result.TeamB.Players...) {
			row := MatchParticipant{MatchID: record.ID, PlayerID: p.ID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		if result.Mode == models.ModeRanked {
			return r.adjustTrophies(tx, result)
		}
		return nil
	})
}

// adjustTrophies applies the symmetric ranked delta, flooring at zero.
func (r *GormRecorder) adjustTrophies(tx *gorm.DB, result models.MatchResult) error {
	winners, losers := result.TeamA.Players, result.TeamB.Players
	if result.Winner == "b" {
		winners, losers = losers, winners
	}
	// Ranked is 1v1; the snapshot came with the result payload.
	adj := RankedAdjustment(winners[0].Trophies, losers[0].Trophies)

	if err := tx.Exec("UPDATE users SET trophies = trophies + ? WHERE user_id = ?",
		adj, winners[0].ID).Error; err != nil {
		return err
	}
	return tx.Exec("UPDATE users SET trophies = CASE WHEN trophies > ? THEN trophies - ? ELSE 0 END WHERE user_id = ?",
		adj, adj, losers[0].ID).Error
}

func (r *GormRecorder) RecordTournament(code string, championID string) error {
	row := TournamentResult{Code: code, ChampionID: championID, FinishedAt: time.Now()}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Exec("UPDATE users SET trophies = trophies + ? WHERE user_id = ?",
			championTrophies, championID).Error
	})
}

func (r *GormRecorder) History(playerID string) ([]models.MatchResult, error) {
	var records []MatchRecord
	err := r.DB.
		Joins("JOIN match_participants ON match_participants.match_id = match_records.id").
		Where("match_participants.player_id = ?", playerID).
		Order("match_records.finished_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	results := make([]models.MatchResult, 0, len(records))
	for _, rec := range records {
		var teamA, teamB models.Team
		if err := json.Unmarshal([]byte(rec.TeamA), &teamA); err != nil {
			r.logger.Warn("corrupt team payload", zap.String("match", rec.ID), zap.Error(err))
			continue
		}
		if err := json.Unmarshal([]byte(rec.TeamB), &teamB); err != nil {
			r.logger.Warn("corrupt team payload", zap.String("match", rec.ID), zap.Error(err))
			continue
		}
		result := models.MatchResult{
			GameID:     rec.ID,
			Mode:       rec.Mode,
			TeamA:      teamA,
			TeamB:      teamB,
			Winner:     rec.Winner,
			ByForfeit:  rec.ByForfeit,
			FinishedAt: rec.FinishedAt,
		}
		if rec.TournamentCode != "" {
			result.Tournament = &models.TournamentRef{Code: rec.TournamentCode}
		}
		results = append(results, result)
	}
	return results, nil
}
