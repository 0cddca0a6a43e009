package model

import (
	"time"
)

// Profile 对应 profiles 表，球员档案与各项积分
type Profile struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name             string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Gender           Gender    `gorm:"column:gender;type:varchar(16)" json:"gender"`
	IsGuest          bool      `gorm:"column:is_guest;default:false;index" json:"is_guest"`
	NTRP             float64   `gorm:"column:ntrp;type:numeric(3,1);default:2.5" json:"ntrp"`
	RatingMenD       int       `gorm:"column:rating_men_d;default:1200" json:"rating_men_d"`
	RatingWomenD     int       `gorm:"column:rating_women_d;default:1200" json:"rating_women_d"`
	RatingMixed      int       `gorm:"column:rating_mixed;default:1200" json:"rating_mixed"`
	RatingSingles    int       `gorm:"column:rating_singles;default:1200" json:"rating_singles"`
	GamesPlayedToday int       `gorm:"column:games_played_today;default:0" json:"games_played_today"`
	TotalGames       int       `gorm:"column:total_games;default:0" json:"total_games"`
	Role             string    `gorm:"column:role;type:varchar(16)" json:"role,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// RatingFor 按类别取对应积分；VIP_MATCH 及未知类别取最高积分
func (p *Profile) RatingFor(c Category) int {
	switch c {
	case CategoryMenDoubles:
		return p.RatingMenD
	case CategoryWomenDoubles:
		return p.RatingWomenD
	case CategoryMixed:
		return p.RatingMixed
	case CategorySingles:
		return p.RatingSingles
	}
	return p.BestRating()
}

// BestRating 四项积分中的最高值
func (p *Profile) BestRating() int {
	best := p.RatingMenD
	for _, r := range []int{p.RatingWomenD, p.RatingMixed, p.RatingSingles} {
		if r > best {
			best = r
		}
	}
	return best
}

// RatingColumn 类别 -> profiles 表积分列名
func RatingColumn(c Category) (string, bool) {
	switch c {
	case CategoryMenDoubles:
		return "rating_men_d", true
	case CategoryWomenDoubles:
		return "rating_women_d", true
	case CategoryMixed:
		return "rating_mixed", true
	case CategorySingles:
		return "rating_singles", true
	}
	return "", false
}

// QueueEntry 对应 queue_entries 表，每个等待中的球员一行
type QueueEntry struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlayerID      string    `gorm:"column:player_id;type:varchar(64);not null;uniqueIndex:uk_queue_active_player,where:is_active = true" json:"player_id"`
	JoinedAt      time.Time `gorm:"column:joined_at;not null" json:"joined_at"`
	DepartureTime string    `gorm:"column:departure_time;type:varchar(5)" json:"departure_time,omitempty"` // HH:MM，可空
	PriorityScore int       `gorm:"column:priority_score;default:0" json:"priority_score"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:PlayerID;references:ID" json:"profile,omitempty"`
}

func (QueueEntry) TableName() string { return "queue_entries" }

// RatingHistory 对应 rating_history 表，只追加不修改
type RatingHistory struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlayerID  string    `gorm:"column:player_id;type:varchar(64);not null;index" json:"player_id"`
	MatchID   uint64    `gorm:"column:match_id;not null;index" json:"match_id"`
	Category  Category  `gorm:"column:category;type:varchar(16);not null" json:"category"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Delta     int       `gorm:"column:delta;not null" json:"delta"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RatingHistory) TableName() string { return "rating_history" }

// All 按迁移顺序列出全部表模型
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&QueueEntry{},
		&Match{},
		&RatingHistory{},
		&MatchConfirmation{},
	}
}
