// Package prompt drives the step dialog through line-by-line terminal
// prompts, for terminals or scripts where the full-screen interface is
// unwanted.
//
// The terminal is abstracted behind PromptDriver; NewSurveyDriver returns
// the interactive implementation. Runner asks for each field of the current
// step, calls Next, prints any field errors and asks again. On the
// confirmation step it prints the summary and offers 送信, 前へ and
// キャンセル.
package prompt
