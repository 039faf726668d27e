// Package voice 定义作者声音画像与内容格式
package voice

import (
	"fmt"
	"strings"

	apperrors "benovitz-content-api/pkg/errors"
)

// Format 内容格式
type Format string

const (
	FormatArticle         Format = "article"
	FormatSocialMedia     Format = "social_media"
	FormatShiurOutline    Format = "shiur_outline"
	FormatShortReflection Format = "short_reflection"
	FormatAdvisorTraining Format = "advisor_training"
)

// FormatInfo 格式说明（/formats 返回项）
type FormatInfo struct {
	Name        string `json:"name"`
	Value       Format `json:"value"`
	Description string `json:"description"`
}

var catalog = []FormatInfo{
	{
		Name:        "Article/Essay",
		Value:       FormatArticle,
		Description: "Long-form content (800-1200 words) with opening hook, Torah perspective, and practical application",
	},
	{
		Name:        "Social Media",
		Value:       FormatSocialMedia,
		Description: "Short-form posts for NCSY audience with hashtags",
	},
	{
		Name:        "Shiur Outline",
		Value:       FormatShiurOutline,
		Description: "NCSY Kollel-style lecture outline with discussion questions",
	},
	{
		Name:        "Short Reflection",
		Value:       FormatShortReflection,
		Description: "Brief daily wisdom (75-150 words)",
	},
	{
		Name:        "Advisor Training",
		Value:       FormatAdvisorTraining,
		Description: "Training content for NCSY advisors and Jewish educators",
	},
}

// Formats 返回全部格式说明，顺序固定
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Values 返回全部格式取值
func Values() []Format {
	out := make([]Format, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, f.Value)
	}
	return out
}

// Valid 是否为已知格式
func (f Format) Valid() bool {
	for _, info := range catalog {
		if info.Value == f {
			return true
		}
	}
	return false
}

// ParseFormat 解析格式字符串，空串视为 article
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatArticle, nil
	}
	f := Format(s)
	if !f.Valid() {
		return "", apperrors.ErrInvalidFormat.WithDetail(
			fmt.Sprintf("Invalid format '%s'. Valid formats: %s", s, quotedList(Values())),
		)
	}
	return f, nil
}

// quotedList 渲染为 ['a', 'b'] 形式
func quotedList(formats []Format) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = "'" + string(f) + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
