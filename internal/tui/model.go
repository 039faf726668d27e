// Package tui 提供内容生成表单的终端界面
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"benovitz-content-api/pkg/contentclient"
	"benovitz-content-api/pkg/contentstate"
)

type field int

const (
	fieldTopic field = iota
	fieldFormat
	fieldContext
	fieldCount
)

type formatOption struct {
	Format      contentclient.Format
	Label       string
	Description string
}

var formatOptions = []formatOption{
	{Format: contentclient.FormatArticle, Label: "Article", Description: "Long-form essay (800-1200 words)"},
	{Format: contentclient.FormatSocialMedia, Label: "Social Media", Description: "Short post with hashtags"},
	{Format: contentclient.FormatShiurOutline, Label: "Shiur Outline", Description: "NCSY Kollel-style lecture plan"},
	{Format: contentclient.FormatShortReflection, Label: "Reflection", Description: "Brief daily wisdom (75-150 words)"},
	{Format: contentclient.FormatAdvisorTraining, Label: "Advisor Training", Description: "Training content for NCSY advisors"},
}

// stateMsg 控制器状态已变化
type stateMsg struct{}

// generateDoneMsg 一次 Generate 调用结束
type generateDoneMsg struct {
	err error
}

// copiedMsg 复制到剪贴板的结果
type copiedMsg struct {
	err error
}

// Model 内容生成表单
type Model struct {
	ctrl *contentstate.Controller

	topic   textinput.Model
	context textarea.Model
	spinner spinner.Model

	formatIdx int
	focus     field
	state     contentstate.State
	notice    string

	copyFn func(string) error
}

// New 创建表单模型
func New(ctrl *contentstate.Controller) Model {
	topic := textinput.New()
	topic.Placeholder = "e.g., Making tefillah meaningful for teens"
	topic.CharLimit = 500
	topic.Width = 60
	topic.Focus()

	ctx := textarea.New()
	ctx.Placeholder = "e.g., For NCSY summer program staff training"
	ctx.ShowLineNumbers = false
	ctx.SetWidth(62)
	ctx.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:    ctrl,
		topic:   topic,
		context: ctx,
		spinner: sp,
		state:   ctrl.State(),
		copyFn:  clipboard.WriteAll,
	}
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Format 当前选中的格式
func (m Model) Format() contentclient.Format {
	return formatOptions[m.formatIdx].Format
}

func (m Model) canSubmit() bool {
	return !m.state.Loading && strings.TrimSpace(m.topic.Value()) != ""
}

// Update 实现 tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = m.ctrl.State()
		return m, nil

	case generateDoneMsg:
		m.state = m.ctrl.State()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = "copy failed: " + msg.err.Error()
		} else {
			m.notice = "copied to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.state.Err != nil {
			m.ctrl.ClearError()
			m.state = m.ctrl.State()
			return m, nil
		}
		return m, tea.Quit
	case "ctrl+s":
		return m.submit()
	case "ctrl+x":
		m.ctrl.ClearContent()
		m.state = m.ctrl.State()
		m.notice = ""
		return m, nil
	case "ctrl+y":
		if m.state.Content == nil {
			return m, nil
		}
		content, copyFn := *m.state.Content, m.copyFn
		return m, func() tea.Msg {
			return copiedMsg{err: copyFn(content)}
		}
	case "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	// 加载中表单不可编辑
	if m.state.Loading {
		return m, nil
	}

	switch m.focus {
	case fieldTopic:
		if msg.String() == "enter" {
			return m.submit()
		}
	case fieldFormat:
		switch msg.String() {
		case "left", "up", "h", "k":
			m.formatIdx = (m.formatIdx + len(formatOptions) - 1) % len(formatOptions)
		case "right", "down", "l", "j":
			m.formatIdx = (m.formatIdx + 1) % len(formatOptions)
		case "enter":
			return m.submit()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTopic:
		m.topic, cmd = m.topic.Update(msg)
	case fieldContext:
		m.context, cmd = m.context.Update(msg)
	}
	return m, cmd
}

func (m Model) setFocus(f field) (tea.Model, tea.Cmd) {
	m.focus = f
	m.topic.Blur()
	m.context.Blur()

	var cmd tea.Cmd
	switch f {
	case fieldTopic:
		cmd = m.topic.Focus()
	case fieldContext:
		cmd = m.context.Focus()
	}
	return m, cmd
}

// submit 空主题或加载中时不发起请求
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}
	if !m.canSubmit() {
		m.notice = contentclient.ErrEmptyTopic.Error()
		return m, nil
	}

	m.state = contentstate.State{Loading: true}
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.generateCmd(m.topic.Value(), m.Format(), m.context.Value()))
}

func (m Model) generateCmd(topic string, format contentclient.Format, additionalContext string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := ctrl.Generate(context.Background(), topic, format, additionalContext)
		if errors.Is(err, contentstate.ErrSuperseded) {
			err = nil
		}
		return generateDoneMsg{err: err}
	}
}

// View 实现 tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Generate Content in Rabbi Benovitz's Voice"))
	b.WriteString("\n")

	b.WriteString(m.label(fieldTopic, "Topic"))
	b.WriteString("\n")
	b.WriteString(m.topic.View())
	b.WriteString("\n\n")

	opt := formatOptions[m.formatIdx]
	b.WriteString(m.label(fieldFormat, "Format"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "‹ %s - %s ›\n\n", opt.Label, opt.Description)

	b.WriteString(m.label(fieldContext, "Additional Context (optional)"))
	b.WriteString("\n")
	b.WriteString(m.context.View())
	b.WriteString("\n\n")

	switch {
	case m.state.Loading:
		b.WriteString(disabledButtonStyle.Render(m.spinner.View() + " Generating..."))
	case m.canSubmit():
		b.WriteString(buttonStyle.Render("Generate Content"))
	default:
		b.WriteString(disabledButtonStyle.Render("Generate Content"))
	}
	b.WriteString("\n")

	if m.state.Err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.state.Err.Error() + "\n(esc to dismiss)"))
		b.WriteString("\n")
	}

	if m.state.Content != nil {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Generated Content"))
		b.WriteString("\n")
		b.WriteString(contentStyle.Render(*m.state.Content))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(helpStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • ←/→: format • ctrl+s: generate • ctrl+y: copy • ctrl+x: clear • ctrl+c: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusedLabelStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}
