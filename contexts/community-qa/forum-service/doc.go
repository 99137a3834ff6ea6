// Package forumservice implements the Q&A forum inside the community-qa
// context.
//
// The module owns questions, answers, votes, accepted-answer transitions,
// follows, tags, related-question links, flags, FAQs and notifications. Every
// mutation runs inside a single unit of work; notification writes happen after
// the primary mutation commits and never fail it.
package forumservice
