package model

import (
	"time"

	"gorm.io/datatypes"
)

// Match 对应 matches 表，一次场地分配及其比赛流程
// CourtName 仅在比赛占用场地时非空；上报比分后清空以释放场地。
type Match struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CourtName      *string        `gorm:"column:court_name;type:varchar(64);uniqueIndex:uk_matches_live_court,where:court_name IS NOT NULL" json:"court_name"`
	Status         MatchStatus    `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Player1        *string        `gorm:"column:player_1;type:varchar(64)" json:"player_1"`
	Player2        *string        `gorm:"column:player_2;type:varchar(64)" json:"player_2"`
	Player3        *string        `gorm:"column:player_3;type:varchar(64)" json:"player_3"`
	Player4        *string        `gorm:"column:player_4;type:varchar(64)" json:"player_4"`
	MatchCategory  Category       `gorm:"column:match_category;type:varchar(16);not null" json:"match_category"`
	RatingCategory Category       `gorm:"column:rating_category;type:varchar(16)" json:"rating_category,omitempty"` // 上报时按性别重新判定
	MatchType      MatchType      `gorm:"column:match_type;type:varchar(16);default:'REGULAR'" json:"match_type"`
	Score1         *int           `gorm:"column:score_1" json:"score_1"`
	Score2         *int           `gorm:"column:score_2" json:"score_2"`
	WinnerTeam     *WinnerTeam    `gorm:"column:winner_team;type:varchar(8)" json:"winner_team"`
	ReportedBy     *string        `gorm:"column:reported_by;type:varchar(64)" json:"reported_by"`
	ConfirmedBy    *string        `gorm:"column:confirmed_by;type:varchar(64)" json:"confirmed_by"`
	StartTime      *time.Time     `gorm:"column:start_time" json:"start_time"`
	EndTime        *time.Time     `gorm:"column:end_time" json:"end_time"`
	RatingDeltas   datatypes.JSON `gorm:"column:rating_deltas" json:"rating_deltas,omitempty"` // 确认时实际写入的积分变化，回滚时取反
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Match) TableName() string { return "matches" }

// Team1 一队球员 ID（跳过空位）
func (m *Match) Team1() []string { return compact(m.Player1, m.Player2) }

// Team2 二队球员 ID（跳过空位）
func (m *Match) Team2() []string { return compact(m.Player3, m.Player4) }

// Participants 全部参赛球员，一队在前
func (m *Match) Participants() []string { return append(m.Team1(), m.Team2()...) }

// TeamOf 返回球员所在队伍（1 或 2），非参赛者返回 0
func (m *Match) TeamOf(playerID string) int {
	for _, id := range m.Team1() {
		if id == playerID {
			return 1
		}
	}
	for _, id := range m.Team2() {
		if id == playerID {
			return 2
		}
	}
	return 0
}

func compact(ids ...*string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil && *id != "" {
			out = append(out, *id)
		}
	}
	return out
}

// RequestIDMaxLen request_id 列宽
const RequestIDMaxLen = 64

// MatchConfirmation 幂等记录：request_id 唯一，重复提交直接返回首次结果
type MatchConfirmation struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RequestID string         `gorm:"column:request_id;type:varchar(64);uniqueIndex;not null"`
	MatchID   uint64         `gorm:"column:match_id;not null;index"`
	Action    string         `gorm:"column:action;type:varchar(16);not null"`
	ActorID   string         `gorm:"column:actor_id;type:varchar(64)"`
	Result    datatypes.JSON `gorm:"column:result"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (MatchConfirmation) TableName() string { return "match_confirmations" }
