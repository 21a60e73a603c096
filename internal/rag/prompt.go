package rag

import "strings"

// NotFoundAnswer is the exact reply required when the context does not
// contain the answer.
const NotFoundAnswer = "I could not find that information in the provided documents."

const promptTemplate = `You are a knowledgeable technical assistant specialized in reading and explaining enterprise documents.
You must answer the user's question ONLY using the information provided in the document context below.
Do NOT use outside or generic knowledge — your answer must be entirely based on the provided context.

If the answer cannot be found within the context, reply exactly:
"` + NotFoundAnswer + `"

When information is available, provide a **detailed, step-by-step, and technically comprehensive answer**, written clearly and logically.
- Expand on explanations using all relevant parts of the context.
- Connect related concepts from different parts of the context.
- If instructions, definitions, or examples are available in the context, include them.
- Do not skip technical depth; aim for completeness rather than brevity.
- Maintain factual accuracy; every statement must trace back to the context.

Your answer must be in markdown format.

Context:
{{context}}

User Question:
{{question}}

Answer:`

// RenderPrompt fills the answer prompt with retrieved context and the
// user's question.
func RenderPrompt(context, question string) string {
	out := strings.ReplaceAll(promptTemplate, "{{context}}", context)
	return strings.ReplaceAll(out, "{{question}}", question)
}
