package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/apifix/pkg/text"
)

func ExampleRegexpTextReplacer_ReplaceText() {
	replacer, err := text.NewRegexpTextReplacer([]text.ReplacementRule{text.DefaultRule()})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	content := strings.NewReader("return res.status(200).json(\n  { error: 'bad' },\n  { status: 404 }\n)")

	result, err := replacer.ReplaceText(context.Background(), "pages/api/user.ts", content)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Modified: return res.status(404).json({ error: 'bad' })
	// Changes: 1
	// Was Modified: true
}
