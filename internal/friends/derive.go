package friends

import (
	"fmt"
	"math"
	"time"
)

// AccentTheme 好友卡片的配色：背景渐变 + 霓虹光晕，均为前端类名。
type AccentTheme struct {
	Accent string
	Neon   string
}

// 固定的 5 组默认配色，按用户 id 的哈希挑选。
var accentPalette = [5]AccentTheme{
	{
		Accent: "from-pink-500/40 via-rose-500/20 to-orange-400/30",
		Neon:   "shadow-[0_0_24px_rgba(244,114,182,0.45)]",
	},
	{
		Accent: "from-sky-500/40 via-cyan-400/20 to-teal-400/30",
		Neon:   "shadow-[0_0_24px_rgba(56,189,248,0.45)]",
	},
	{
		Accent: "from-violet-500/40 via-purple-500/20 to-fuchsia-400/30",
		Neon:   "shadow-[0_0_24px_rgba(167,139,250,0.45)]",
	},
	{
		Accent: "from-emerald-500/40 via-green-400/20 to-lime-400/30",
		Neon:   "shadow-[0_0_24px_rgba(52,211,153,0.45)]",
	},
	{
		Accent: "from-amber-500/40 via-yellow-400/20 to-orange-300/30",
		Neon:   "shadow-[0_0_24px_rgba(251,191,36,0.45)]",
	},
}

// BadgeColorPalette 徽章可选的渐变配色。
var BadgeColorPalette = []string{
	"from-pink-500 to-rose-400",
	"from-sky-500 to-cyan-400",
	"from-violet-500 to-purple-400",
	"from-emerald-500 to-teal-400",
	"from-amber-500 to-orange-400",
}

// hashString 将字符串映射为非负整数，h = h*31 + c，按 32 位回绕。
// 只用于稳定的伪随机取值，不参与任何正确性判断。
func hashString(s string) int {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	v := int(h)
	if v < 0 {
		v = -v
	}
	return v
}

// pickAccent 按 (hash(seed) + fallbackIndex) mod 5 选取默认配色。
// 同一 (seed, fallbackIndex) 永远得到同一组配色。
func pickAccent(seed string, fallbackIndex int) AccentTheme {
	idx := (hashString(seed) + fallbackIndex) % len(accentPalette)
	if idx < 0 {
		idx += len(accentPalette)
	}
	return accentPalette[idx]
}

// defaultScore 返回 [60, 99] 内的确定性默认活跃分。
func defaultScore(seed string) int {
	return 60 + hashString(seed)%40
}

// defaultOrbitLabel 返回形如 "DAY 137" 的装饰性轨道标签。
func defaultOrbitLabel(seed string) string {
	return fmt.Sprintf("DAY %d", 50+hashString(seed)%250)
}

// EngagementInput 活跃分计算的四项输入，均为非负计数。
type EngagementInput struct {
	Posts        int
	Comments     int
	Likes        int
	ActivityDays int
}

// computeActivityScore 加权求和后做开方压缩：早期互动涨分快，接近 100 时收敛。
// 加权和为 0 时必须返回 0，零互动不能显示成默认分。
func computeActivityScore(in EngagementInput) int {
	weighted := in.Posts*6 + in.Comments*4 + in.Likes*2 + in.ActivityDays*5
	if weighted <= 0 {
		return 0
	}
	score := int(math.Round(math.Sqrt(float64(weighted)) * 5))
	if score > 100 {
		score = 100
	}
	return score
}

// computeCompanionshipDays 按 UTC 日界计算陪伴天数，注册当天记为第 1 天。
// createdAt 为零值时返回 0。
func computeCompanionshipDays(createdAt time.Time, now time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	created := createdAt.UTC()
	createdMidnight := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
	today := now.UTC()
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	days := int(todayMidnight.Sub(createdMidnight).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}
