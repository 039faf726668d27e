package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"benovitz-content-api/pkg/contentstate"
)

// Run 启动交互式表单，阻塞直到用户退出
func Run(ctrl *contentstate.Controller) error {
	p := tea.NewProgram(New(ctrl), tea.WithAltScreen())

	unsubscribe := ctrl.Subscribe(func(contentstate.State) {
		go p.Send(stateMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
