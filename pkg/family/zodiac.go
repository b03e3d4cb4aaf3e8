package family

// Zodiac is a Chinese zodiac sign.
type Zodiac struct {
	Animal string `json:"animal"`
	Emoji  string `json:"emoji"`
}

var zodiacs = [12]Zodiac{
	{"鼠", "🐀"}, {"牛", "🐂"}, {"虎", "🐅"}, {"兔", "🐇"},
	{"龙", "🐉"}, {"蛇", "🐍"}, {"马", "🐴"}, {"羊", "🐑"},
	{"猴", "🐵"}, {"鸡", "🐔"}, {"狗", "🐕"}, {"猪", "🐷"},
}

// ZodiacOf returns the zodiac sign for a birth year.
// Year 4 CE was a rat year; the cycle repeats every 12 years.
// A nil year returns the zero Zodiac.
func ZodiacOf(year *int) Zodiac {
	if year == nil {
		return Zodiac{}
	}
	i := (*year - 4) % 12
	if i < 0 {
		i += 12
	}
	return zodiacs[i]
}
