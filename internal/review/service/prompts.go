package service

import "fmt"

// TestPrompt is sent by the connectivity check.
const TestPrompt = "Hello, this is a test."

func reviewPrompt(code, language string) string {
	return fmt.Sprintf(`Review this %[1]s code and provide feedback:

`+"```"+`%[1]s
%[2]s
`+"```"+`

Please analyze the code for:
- Bugs and issues
- Optimization opportunities
- Best practices
- Security concerns
- Performance improvements

Be constructive and specific in your feedback.`, language, code)
}

func explainPrompt(code, language string) string {
	return fmt.Sprintf(`Explain what this %[1]s code does:

`+"```"+`%[1]s
%[2]s
`+"```"+`

Walk through it step by step for a reader who is new to the codebase:
- The overall purpose
- The main control flow
- Any non-obvious language features or library calls

Keep the explanation clear and concise.`, language, code)
}
