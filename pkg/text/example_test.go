package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/apirewrite/pkg/text"
)

func ExampleRegexpReplacer_ReplaceText() {
	replacer := text.NewRegexpReplacer()

	rules := []text.ReplacementRule{
		text.MustCompileRule("greeting", `Hello (\w+)`, "Hi ${1}"),
		text.MustCompileRule("target", `World`, "Universe"),
	}

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Hello World!"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Changes: 2
	// Was Modified: true
}

func ExampleRewrite() {
	rules := []text.ReplacementRule{
		text.MustCompileRule("del", `client\.del\('(\w+)'\)`, "del('${1}')"),
	}

	fmt.Println(text.Rewrite("await client.del('users');", rules))

	// Output:
	// await del('users');
}
