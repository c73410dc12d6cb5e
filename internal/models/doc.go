// Package models defines domain entities for the StudySync study client.
//
// All types here mirror JSON payloads of the StudySync backend:
//   - [Task] : one scheduled unit of study work, dated by the server-side scheduler
//   - [Class] : an enrolled class grouping uploaded study material
//   - [ReviewSession] : the material returned when a task is started
//   - [QuizFeedback] : grading feedback for a submitted quiz answer
//
// Tasks are created and dated by the external spaced-repetition scheduler.
// The client only reads them and marks them completed; it never creates,
// reschedules, or deletes tasks.
package models
