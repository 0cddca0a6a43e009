package interfaces

import (
	"context"
	"errors"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
)

// 存储层哨兵错误，服务层据此归类为 Conflict / NotFound
var (
	ErrNotFound         = errors.New("record not found")
	ErrCourtOccupied    = errors.New("court already has a live match")
	ErrPlayerNotQueued  = errors.New("player no longer in queue")
	ErrAlreadyQueued    = errors.New("player already in queue")
	ErrPlayerInMatch    = errors.New("player already in a live match")
	ErrStaleState       = errors.New("match is not in the expected status")
	ErrDuplicateRequest = errors.New("request already applied")
)

// ProfileFilter 档案列表筛选；SortBy 为空时按姓名排序，否则按该类别积分降序
type ProfileFilter struct {
	Guest  *bool
	SortBy model.Category
	Limit  int
}

// ProfileStore 球员档案持久化
type ProfileStore interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	GetMany(ctx context.Context, ids []string) ([]*model.Profile, error)
	List(ctx context.Context, filter ProfileFilter) ([]*model.Profile, error)
	Insert(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteGuests(ctx context.Context) (int64, error)
	ResetDailyGames(ctx context.Context) error
}

// QueueStore 等待队列持久化；ListActive 预加载 Profile
type QueueStore interface {
	ListActive(ctx context.Context) ([]*model.QueueEntry, error)
	GetByPlayer(ctx context.Context, playerID string) (*model.QueueEntry, error)
	Insert(ctx context.Context, e *model.QueueEntry) error
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	UpdateScores(ctx context.Context, scores map[uint64]int) error
	DeleteByIDs(ctx context.Context, ids []uint64) error
	DeleteByPlayerIDs(ctx context.Context, playerIDs []string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// MatchStore 比赛持久化
type MatchStore interface {
	Get(ctx context.Context, id uint64) (*model.Match, error)
	ListByStatus(ctx context.Context, statuses []model.MatchStatus) ([]*model.Match, error)
	ListLiveByPlayer(ctx context.Context, playerID string) ([]*model.Match, error)
	// InsertIfCourtFree 场地无进行中比赛时插入，否则 ErrCourtOccupied
	InsertIfCourtFree(ctx context.Context, m *model.Match) error
	// CreateWithDequeue 同一事务内插入比赛并移出队列；任一球员已在进行中的比赛即 ErrPlayerInMatch，
	// requireQueued 时任一球员不在队列即 ErrPlayerNotQueued
	CreateWithDequeue(ctx context.Context, m *model.Match, playerIDs []string, requireQueued bool) error
	// UpdateIf 仅当状态仍为 from 时更新，否则 ErrStaleState
	UpdateIf(ctx context.Context, id uint64, from model.MatchStatus, fields map[string]interface{}) error
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
}

// RatingHistoryStore 积分历史，只追加
type RatingHistoryStore interface {
	Insert(ctx context.Context, e *model.RatingHistory) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*model.RatingHistory, error)
}

// ProfileUpdate 单个球员的增量更新（积分按 Batch.Category 对应列累加）
type ProfileUpdate struct {
	PlayerID       string
	RatingDelta    int
	GamesIncrement int
}

// Batch 一次原子多写：比赛状态迁移 + 档案 + 历史 + 重新排队 + 幂等记录
// History 的 Rating 由 Apply 按事务内更新后的档案积分填写
type Batch struct {
	RequestID string // 非空时写入 match_confirmations，重复则 ErrDuplicateRequest
	Action    string
	ActorID   string
	Result    []byte

	MatchID     uint64
	FromStatus  model.MatchStatus
	MatchFields map[string]interface{}
	DeleteMatch bool

	Category       model.Category
	ProfileUpdates []ProfileUpdate
	History        []*model.RatingHistory
	QueueInserts   []*model.QueueEntry
}

// Transactor 原子多写原语
type Transactor interface {
	Apply(ctx context.Context, b *Batch) error
	Confirmation(ctx context.Context, requestID string) (*model.MatchConfirmation, error)
}
