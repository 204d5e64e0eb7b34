package summarize

import "fmt"

// Map-reduce prompts for legal document summarization. The map prompt
// condenses each section; the combine prompt merges section summaries
// into the final document summary.

const mapPromptTemplate = `Write a concise summary of the following legal text section:

"%s"

CONCISE SUMMARY:`

const combinePromptTemplate = `You are a legal expert. You have been given a series of summaries of sections from a legal document.
Your goal is to create a coherent, comprehensive summary of the entire document, highlighting obligations, liabilities, dates, and key terms.
Use professional legal tone but make it easy to understand for a business stakeholder.

Summaries:
"%s"

COMPREHENSIVE LEGAL SUMMARY:`

func mapPrompt(section string) string {
	return fmt.Sprintf(mapPromptTemplate, section)
}

func combinePrompt(sectionSummaries string) string {
	return fmt.Sprintf(combinePromptTemplate, sectionSummaries)
}
