package contentclient

// Format 内容格式
type Format string

// 可用内容格式
const (
	FormatArticle         Format = "article"
	FormatSocialMedia     Format = "social_media"
	FormatShiurOutline    Format = "shiur_outline"
	FormatShortReflection Format = "short_reflection"
	FormatAdvisorTraining Format = "advisor_training"
)

// GenerateRequest 内容生成请求，序列化时四个字段总是出现
type GenerateRequest struct {
	Topic             string `json:"topic"`
	Format            Format `json:"format"`
	AdditionalContext string `json:"additional_context"`
	PromptOnly        bool   `json:"prompt_only"`
}

// withDefaults 未设置格式时使用 article
func (r GenerateRequest) withDefaults() GenerateRequest {
	if r.Format == "" {
		r.Format = FormatArticle
	}
	return r
}

// GenerateResponse 内容生成响应
type GenerateResponse struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Topic   string `json:"topic"`
}

// FormatInfo 格式描述
type FormatInfo struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// VoiceProfile 作者声音画像，字段原样透传
type VoiceProfile struct {
	Name             string `json:"name"`
	Tone             string `json:"tone"`
	StylePatterns    string `json:"style_patterns"`
	Themes           string `json:"themes"`
	Influences       string `json:"influences"`
	HebrewVocabulary string `json:"hebrew_vocabulary"`
	Transitions      string `json:"transitions"`
}

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h *HealthStatus) validate() error {
	if h.Status == "" {
		return errMissingField("status")
	}
	return nil
}

type formatsEnvelope struct {
	Formats []FormatInfo `json:"formats"`
}

func (e *formatsEnvelope) validate() error {
	if e.Formats == nil {
		return errMissingField("formats")
	}
	return nil
}

type systemPromptEnvelope struct {
	SystemPrompt *string `json:"system_prompt"`
}

func (e *systemPromptEnvelope) validate() error {
	if e.SystemPrompt == nil {
		return errMissingField("system_prompt")
	}
	return nil
}

// validator 解码后做结构校验的响应体
type validator interface {
	validate() error
}
