package voice

import (
	"embed"
	"strings"
)

//go:embed instructions/*.md
var instructionFS embed.FS

// Instructions 返回格式对应的结构说明，未知格式回退为 article
func Instructions(f Format) string {
	if !f.Valid() {
		f = FormatArticle
	}
	content, err := instructionFS.ReadFile("instructions/" + string(f) + ".md")
	if err != nil {
		// 每个已知格式都有嵌入文件，这里只在构建遗漏时触发
		panic("voice: missing instructions for format " + string(f))
	}
	return strings.TrimSpace(string(content))
}
