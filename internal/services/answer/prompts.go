package answer

import (
	"fmt"
	"strings"

	"github.com/francids/escruta/internal/models"
)

// CannotAnswerMessage is the exact sentinel the model must emit when the
// sources do not contain the answer. The empty-retrieval short circuit
// returns it directly without a generation call.
const CannotAnswerMessage = "I cannot answer that question with the sources available in this notebook."

// ErrorFallbackMessage replaces any engine failure on the chat path. Raw
// errors never reach the end user.
const ErrorFallbackMessage = "An error occurred while processing your request. Please try again."

// noSourcesMarker renders in place of the source block when retrieval
// returns nothing, so the prompt never carries an empty section.
const noSourcesMarker = "(no sources available)"

// strictSystemPrompt forbids outside knowledge and demands the sentinel
// when the sources are insufficient.
const strictSystemPrompt = `CRITICAL INSTRUCTIONS - YOU MUST FOLLOW EXACTLY, WITHOUT EXCEPTION:

1. You are ABSOLUTELY FORBIDDEN to use any information not explicitly present in the provided SOURCES.
2. You MUST NOT use ANY general knowledge, external information, or prior training data. Your responses are SOLELY derived from the SOURCES.
3. If the complete answer is NOT found EXPLICITLY within the SOURCES, you MUST respond EXACTLY with: "` + CannotAnswerMessage + `"
4. When providing an answer, you MUST cite the specific source identifier for EVERY piece of information provided. If multiple sources contribute, cite all relevant sources.
5. You MUST NOT make inferences, assumptions, or claims beyond directly quoting or clearly referencing the provided source material.
6. If a question cannot be answered from the sources, DO NOT attempt to provide any part of an answer; provide the exact "cannot answer" response and stop.

NOTEBOOK SOURCES:

%s

REMINDER: If you cannot find the answer in the above sources, you are STRICTLY REQUIRED to respond with: "` + CannotAnswerMessage + `"`

// relaxedSystemPrompt keeps answers source-bound but conversational.
const relaxedSystemPrompt = `You are a helpful AI assistant. Answer questions using ONLY the provided sources.

RULES:
1. Provide clear, comprehensive answers based on the available sources
2. Write in a natural, conversational tone
3. Use simple formatting only: **bold**, *italic*, ` + "`code`" + `
4. Focus on directly answering the user's question with the information from the sources

NOTEBOOK SOURCES:

%s`

// citationFormatInstruction makes the model emit a machine-parseable
// citation list alongside the answer.
const citationFormatInstruction = `

OUTPUT FORMAT: Respond with a single JSON object and nothing else:
{"message": "<your answer>", "citedSourceIds": ["<source id>", ...]}
List in citedSourceIds only the ids of sources you actually used.`

// summaryUserPrompt asks for a short citation-free rollup.
const summaryUserPromptTemplate = "I want you to summarize the key information in %d or fewer sentences, and I want that summary to be clear, complete, and free of citations or references."

// exampleQuestionsUserPrompt asks for starter questions the sources can
// answer. The JSON shape keeps parsing deterministic.
const exampleQuestionsUserPrompt = `Based on the provided context, generate three simple, short, and concise questions that can be answered using the sources.

OUTPUT FORMAT: Respond with a single JSON object and nothing else:
{"questions": ["<question>", "<question>", "<question>"]}`

// buildSourceBlock concatenates retrieved documents wrapped in a delimited
// template carrying id, title, link, and content.
func buildSourceBlock(docs []models.RetrievedDocument) string {
	if len(docs) == 0 {
		return noSourcesMarker
	}

	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		var b strings.Builder
		fmt.Fprintf(&b, "--- SOURCE %d (id: %s) ---\n", i+1, doc.Metadata.SourceID)
		fmt.Fprintf(&b, "Title: %s\n", doc.Metadata.Title)
		if doc.Metadata.Link != "" {
			fmt.Fprintf(&b, "Link: %s\n", doc.Metadata.Link)
		}
		fmt.Fprintf(&b, "Content:\n%s\n", doc.Text)
		b.WriteString("--- END SOURCE ---")
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n")
}

// buildSystemPrompt assembles the grounding instruction for the given
// strictness and retrieved documents.
func buildSystemPrompt(strictness GroundingStrictness, docs []models.RetrievedDocument, jsonCitations bool) string {
	template := strictSystemPrompt
	if strictness == GroundingRelaxed {
		template = relaxedSystemPrompt
	}

	prompt := fmt.Sprintf(template, buildSourceBlock(docs))
	if jsonCitations {
		prompt += citationFormatInstruction
	}
	return prompt
}
