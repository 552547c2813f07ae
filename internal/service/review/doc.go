// Package review implements the vocabulary review workflow: recording quiz
// and flashcard attempts, scheduling the next review of each word, and
// assembling study sessions and progress summaries.
//
// Every attempt runs as one transaction over the stores in internal/store.
// Review state carries a version, and an attempt that loses a race with a
// concurrent attempt on the same word is retried from a fresh read. Domain
// events are published only after the transaction commits.
package review
