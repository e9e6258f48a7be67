package ai

import (
	"fmt"
	"strings"

	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
)

// GeneralKnowledgeTopic is the marker the classifier answers with when no
// catalog document matches the question.
const GeneralKnowledgeTopic = "一般知識"

// slackFormatRules are the mrkdwn formatting instructions appended to every
// answer prompt so replies render correctly in Slack.
const slackFormatRules = "# Slack用の書式ルール\n" +
	"* 強調したい単語は、`*単語*` のようにアスタリスクで囲んでください．\n" +
	"* 箇条書きを使う場合は、行頭に `• ` (中黒と半角スペース) を使用してください．\n" +
	"* `**単語**` のような二重アスタリスクや、行頭の `* ` は使用しないでください．"

// ClassificationPrompt builds the prompt that selects the most relevant
// catalog topic for a question, or the general-knowledge marker.
func ClassificationPrompt(question string, docs []model.Document) string {
	var topics strings.Builder
	for i, d := range docs {
		if i > 0 {
			topics.WriteString("\n")
		}
		fmt.Fprintf(&topics, "- トピック名: %s\n  説明: %s", d.Keyword, d.Description)
	}

	return fmt.Sprintf(
		"あなたはユーザーの質問内容を分析し、最も関連性の高い資料を判断する専門家です．\n"+
			"以下の質問に答えるのに最適なトピックを、下記のトピックリストから一つだけ選び、その「トピック名」だけを答えてください．\n"+
			"もし、どのトピックにも当てはまらない一般知識の質問の場合は、「%s」と答えてください．\n\n"+
			"## 質問:\n%s\n\n"+
			"## トピックリスト:\n%s\n\n"+
			"## 回答（トピック名一つだけ）：",
		GeneralKnowledgeTopic, question, topics.String())
}

// GroundedAnswerPrompt builds the prompt that answers a question strictly
// from the selected document.
func GroundedAnswerPrompt(question, sourceFile, documentText string) string {
	return fmt.Sprintf(
		"あなたは研究室の優秀で親しみやすいアシスタント、おくだくんです．\n"+
			"以下の参考情報に厳密に基づいて、丁寧で分かりやすい言葉で回答を生成してください．\n\n"+
			"# 指示\n"+
			"* 箇条書きを使う場合でも、前後に説明の文章を加えて会話のような自然な流れにしてください．\n"+
			"* 相手は後輩や新入生であることを意識し、親しみやすい口調を心がけてください．\n"+
			"* 参考情報に書かれていないことは、絶対に答えないでください．\n\n"+
			"%s\n\n"+
			"# 参考情報 (出典: %s)\n%s\n\n"+
			"# 質問\n%s",
		slackFormatRules, sourceFile, documentText, question)
}

// FallbackPrompt builds the prompt used when no catalog document matches and
// the model answers from general knowledge.
func FallbackPrompt(question string) string {
	return fmt.Sprintf(
		"あなたは研究室の優秀で親しみやすいアシスタント、おくだくんです．\n"+
			"「%s」という質問を受けましたが、手元に関連する資料がありませんでした．\n"+
			"あなたの持っている一般的な知識を最大限に活用し、後輩に教えるような親しみやすく丁寧な口調で応答してください．\n\n"+
			"%s",
		question, slackFormatRules)
}

// NormalizeTopic cleans the classifier's raw reply before catalog lookup:
// models tend to wrap the keyword in quotes or asterisks, or append a
// sentence terminator.
func NormalizeTopic(raw string) string {
	topic := strings.TrimSpace(raw)
	replacer := strings.NewReplacer("'", "", `"`, "", "．", "", "*", "")
	return strings.TrimSpace(replacer.Replace(topic))
}
