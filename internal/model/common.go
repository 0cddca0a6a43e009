package model

import "strings"

// MatchStatus 比赛生命周期状态
type MatchStatus string

const (
	StatusDraft    MatchStatus = "DRAFT"
	StatusPlaying  MatchStatus = "PLAYING"
	StatusScoring  MatchStatus = "SCORING"
	StatusPending  MatchStatus = "PENDING"
	StatusFinished MatchStatus = "FINISHED"
	StatusDisputed MatchStatus = "DISPUTED"
)

// LiveStatuses 仍占用场地的状态
var LiveStatuses = []MatchStatus{StatusDraft, StatusPlaying, StatusScoring}

// Category 比赛类别，决定调整哪一项积分
type Category string

const (
	CategoryMenDoubles   Category = "MEN_D"
	CategoryWomenDoubles Category = "WOMEN_D"
	CategoryMixed        Category = "MIXED"
	CategorySingles      Category = "SINGLES"
	CategoryVIP          Category = "VIP_MATCH"
)

// ParseCategory 只接受积分类别；VIP_MATCH 只是创建时的标签，不对应积分列
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryMenDoubles, CategoryWomenDoubles, CategoryMixed, CategorySingles:
		return c, true
	}
	return "", false
}

type MatchType string

const (
	MatchTypeRegular    MatchType = "REGULAR"
	MatchTypeTournament MatchType = "TOURNAMENT"
)

type WinnerTeam string

const (
	WinnerTeam1 WinnerTeam = "TEAM_1"
	WinnerTeam2 WinnerTeam = "TEAM_2"
	WinnerDraw  WinnerTeam = "DRAW"
)

// Gender 性别（空字符串表示未设置）
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// NormalizeGender 归一为 Male/Female：仅以 m 开头的视为男性，其余（含未设置）均视为女性
func NormalizeGender(g string) Gender {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(g)), "m") {
		return GenderMale
	}
	return GenderFemale
}

const (
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// DefaultRating 新玩家各项积分初始值
const DefaultRating = 1200
