// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"text/template"
)

// outlinePromptTmpl asks for the report skeleton. The outline must end with
// the reference section heading so later passes have a place to cite into.
var outlinePromptTmpl = template.Must(template.New("outline").Parse(`### 目标 ###
你是专业的研究报告撰写助手。请根据“用户问题”生成一份技术报告的大纲，可参考“维度”拟定章节标题。

### 格式要求 ###
- 5 到 8 个主要章节，每个章节标题 3 到 8 个字
- 必须包含“总结”章节
- 最后一行是“{{.Heading}}”
- 只输出大纲本身

### 用户问题 ###
{{.Question}}

### 维度 ###
{{range .Dimensions}}- {{.}}
{{end}}`))

// refinePromptTmpl folds one fragment into the current report.
var refinePromptTmpl = template.Must(template.New("refine").Parse(`### 目标 ###
阅读下面的文本块，结合已有知识，完善当前报告，回答用户问题。

### 报告格式 ###
1. 保持当前报告的章节结构，输出完整报告
2. 引用文本块时在句末直接写编号，例如“冰的密度小于水[1][2]。”，每个编号单独一对方括号，编号与前文之间不留空格
3. 所有引用汇总到“{{.Heading}}”章节，每条形如“[1]描述”
4. 文本块为英文时仍用中文作答

### 用户问题 ###
{{.Question}}

### 当前报告 ###
{{.Report}}

### 文本块 ###
{{.Fragment}}
`))

// knowledgePromptTmpl fills the outline from the model's own knowledge when
// no fragments are supplied.
var knowledgePromptTmpl = template.Must(template.New("knowledge").Parse(`### 任务 ###
请依据下面的报告框架，基于你的专业知识完成整份技术报告，回答用户问题。

### 报告框架 ###
{{.Report}}

### 用户问题 ###
{{.Question}}

### 要求 ###
1. 保持框架的章节结构，每个章节不少于 200 字
2. 引用在句末以方括号编号标注，例如“[1]”，每个编号单独一对方括号
3. 在“{{.Heading}}”章节列出 3 到 5 条相关论文或标准，每条形如“[1]描述”
`))

// promptData is the data passed to every prompt template.
type promptData struct {
	Heading    string
	Question   string
	Dimensions []string
	Report     string
	Fragment   string
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
