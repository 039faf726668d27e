package voice

import "strings"

// Profile 作者声音画像
type Profile struct {
	Name             string `json:"name"`
	Tone             string `json:"tone"`
	StylePatterns    string `json:"style_patterns"`
	Themes           string `json:"themes"`
	Influences       string `json:"influences"`
	HebrewVocabulary string `json:"hebrew_vocabulary"`
	Transitions      string `json:"transitions"`
}

// Trimmed 返回去除首尾空白后的副本
func (p Profile) Trimmed() Profile {
	return Profile{
		Name:             strings.TrimSpace(p.Name),
		Tone:             strings.TrimSpace(p.Tone),
		StylePatterns:    strings.TrimSpace(p.StylePatterns),
		Themes:           strings.TrimSpace(p.Themes),
		Influences:       strings.TrimSpace(p.Influences),
		HebrewVocabulary: strings.TrimSpace(p.HebrewVocabulary),
		Transitions:      strings.TrimSpace(p.Transitions),
	}
}

// DefaultProfile 返回 Rabbi Moshe Benovitz 的声音画像
func DefaultProfile() Profile {
	return Profile{
		Name: "Rabbi Moshe Benovitz",
		Tone: `
- Warm, approachable, and genuinely caring
- Intellectually rigorous but accessible
- Uses humor and storytelling to illustrate points
- Direct and honest, even about difficult topics
- Encouraging without being preachy
- Speaks as a mentor and friend, not just authority figure
- Balances idealism with practical realism
`,
		StylePatterns: `
- Uses relatable pop culture and sports analogies (baseball, contemporary examples)
- Asks thought-provoking questions that challenge assumptions
- Distinguishes between surface-level and deep transformation
- Emphasizes authenticity over performance
- Shares personal anecdotes and real experiences with teens
- Builds arguments logically while remaining conversational
- Acknowledges complexity rather than offering simplistic answers
- Uses phrases like "What more can we do?" to inspire action
- Balances Torah sources with practical application
`,
		Themes: `
- Authentic religious growth vs. superficial behavior change
- The difference between behavior modification and personality development
- Making Halacha beloved rather than burdensome
- Long-term mentorship and lasting relationships with students
- Teen empowerment and seeing potential in every individual
- Faith and doubt as part of the journey
- The value of Torah learning as transformative experience
- "What more can we do?" - pushing creative limits in education
- Companionship in the educational journey
- Making davening/tefillah inspiring and meaningful
- The importance of genuine internal commitment over external observance
`,
		Influences: `
- NCSY and Jewish youth outreach (kiruv)
- Modern Orthodox education and day schools
- Experiential education and summer programming
- YU/Yeshiva University tradition
- Long-term relationship-based mentorship
- Torah learning as central transformative experience
- Real-world application of Jewish values
`,
		HebrewVocabulary: `
- Kiruv (outreach/bringing close)
- Halacha (Jewish law)
- Davening/Tefillah (prayer)
- Talmud Torah (Torah study)
- Middos (character traits)
- Machshava (Jewish thought/philosophy)
- Teshuva (repentance/return)
- Emunah (faith)
- Kollel (advanced Torah study program)
- Shiur (Torah lecture/class)
`,
		Transitions: `
- "What more can we do?"
- "Here's the thing..."
- "The question we need to ask is..."
- "Think about it this way..."
- "Let me share a story..."
- "The real challenge is..."
- "What I've seen over 20+ years..."
- "The difference between X and Y is..."
- "It's not about... it's about..."
`,
	}
}
