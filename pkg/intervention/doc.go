// Package intervention is the AI-driven human-in-the-loop gate
// (component I): a screenshot classifier that decides whether a
// workflow should pause for a human before continuing.
//
// Grounded on original_source's backend/engine/ai/intervention.py:
// the detection prompt and the five situations it checks for (login
// form, CAPTCHA, ad/privacy popup, security confirmation, generic
// human-verification challenge) carry over unchanged, and so does its
// core safety property — detection failure defaults to
// needs_intervention=true rather than letting a workflow run past a
// screen it never actually classified.
package intervention
