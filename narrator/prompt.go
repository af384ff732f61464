package narrator

import (
	"fmt"

	"github.com/yonghwan-ko02/talereboot/internal/util"
)

// ResolutionMarker is emitted by the model when the player's action resolves
// the current chapter's obstacle. The prompt and the parser share it.
const ResolutionMarker = "[SCENE_RESOLVED]"

// Fixed texts shown to the player or used as prompt filler.
const (
	DefaultContext = "원작 콩쥐팥쥐 이야기를 참고하세요."
	DefaultNotice  = "✨ [장면 해결] 이야기가 다음 장으로 넘어갑니다."
	PrologueAction = "(이야기 시작)"
)

// DefaultPrologue is the fixed opening shown before the first action.
const DefaultPrologue = `옛날 옛적, 어느 작은 마을에 콩쥐라는 마음씨 고운 아이가 살았습니다.
어머니를 일찍 여읜 콩쥐는 새어머니와 그 딸 팥쥐와 함께 살게 되었지요.

오늘 아침에도 새어머니는 마당에 놓인 커다란 독을 가리키며 말합니다.
"해가 지기 전까지 저 독에 물을 가득 채워 놓거라."
가까이 다가가 보니 독의 밑바닥에는 커다란 구멍이 뚫려 있습니다.

이번에는 이야기가 당신의 선택을 따라갑니다. 콩쥐는 어떻게 할까요?
1. 묵묵히 물을 길어 독을 채우기 시작한다
2. 새어머니에게 밑 빠진 독이라고 따진다
3. 집을 떠날 궁리를 한다`

var turnTemplate = util.MustParse("turn", `[Background from the original tale]
{{.Context}}

[Game status]
Reboot score: {{.Score}}/100, current path: {{.Ending}}

[Current scene]
Chapter: {{.Chapter}} ({{.Status}})

[Story so far]
{{.Summary}}

[Recent turns]
{{if .Transcript}}{{.Transcript}}{{else}}(none){{end}}

[Player action]
{{.Action}}

[Instructions]
{{numbered .Instructions}}`)

type turnData struct {
	Context      string
	Score        int
	Ending       string
	Chapter      string
	Status       string
	Summary      string
	Transcript   string
	Action       string
	Instructions []string
}

func turnInstructions(language, obstacle string) []string {
	return []string{
		fmt.Sprintf("Continue the story from the information above in %s. Respect the player's choice but keep each character's personality from the original tale.", language),
		"Keep the canonical names: 콩쥐 (Kongjwi), 팥쥐 (Patjwi), 새어머니 (the stepmother), 원님 (the magistrate).",
		"End the reply with exactly three numbered suggestions for the player's next action.",
		fmt.Sprintf("Only if the player's action resolves %s, append %s on its own final line.", obstacle, ResolutionMarker),
	}
}

const summarySystemPrompt = "You condense the log of an interactive folktale into a short running summary."

var summaryTemplate = util.MustParse("summary", `Merge the existing summary with the new turns into one updated summary of at most three sentences, written in {{.Language}}. Reply with the summary only.

[Existing summary]
{{.Summary}}

[New turns]
{{.Transcript}}`)

type summaryData struct {
	Language   string
	Summary    string
	Transcript string
}
