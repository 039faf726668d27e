package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptContentV1    PromptID = "content_v1"
	PromptPromptOnlyV1 PromptID = "prompt_only_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}

	templates := make([]schema.MessagesTemplate, 0, 2)
	if systemPath != "" {
		system, err := readEmbeddedText(systemPath)
		if err != nil {
			return nil, err
		}
		templates = append(templates, schema.SystemMessage(system))
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}
	templates = append(templates, schema.UserMessage(user))

	tpl := einoprompt.FromMessages(schema.FString, templates...)
	r.cache[id] = tpl
	return tpl, nil
}

// resolvePromptFiles 返回模板文件路径；systemFile 为空表示只有用户消息
func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptContentV1:
		return "templates/content_v1.system.txt", "templates/content_v1.user.txt", nil
	case PromptPromptOnlyV1:
		return "", "templates/prompt_only_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
