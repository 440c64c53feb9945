package trivia

import (
	"fmt"

	"github.com/anyquestionsgame/kingofhearts/internal/llm"
)

const questionSystemPrompt = `You write trivia questions for a living-room party game. Players nominate
topics they know well and answer out loud, so every question must be a real,
verifiable fact question with a single short answer.

Rules:
- Write single-fact questions starting with Who, What, When, Where, Which or
  How many. No opinion, no multi-part, no trick questions.
- 100 points is something any casual fan knows; 400 points is for a genuine
  expert but still fair. Scale difficulty between.
- The hint should nudge without giving the answer away.
- List reasonable alternative phrasings of the answer under "variants"
  (abbreviations, surname only, common misspellings).
- Respond with strict JSON only, no prose before or after, in this shape:
{"questions":[{"points":100,"question":"...","hint":"...","answer":{"display":"...","variants":["..."]}}, ...]}
- Exactly four questions, one each at 100, 200, 300 and 400 points.`

// Few-shot exchanges bias the model toward the single-fact house style.
var questionExamples = []llm.Message{
	{Role: "user", Content: `Topic: "The Beatles"`},
	{Role: "assistant", Content: `{"questions":[` +
		`{"points":100,"question":"Which city did The Beatles come from?","hint":"It has a famous ferry.","answer":{"display":"Liverpool","variants":["liverpool england"]}},` +
		`{"points":200,"question":"Who was the last member to join The Beatles?","hint":"He replaced Pete Best on drums.","answer":{"display":"Ringo Starr","variants":["ringo","richard starkey"]}},` +
		`{"points":300,"question":"What was the first Beatles single to reach number one in the US?","hint":"Released in late 1963.","answer":{"display":"I Want to Hold Your Hand","variants":[]}},` +
		`{"points":400,"question":"Which studio album was the first the band recorded entirely after quitting touring?","hint":"It came out in 1967 in a famously colorful sleeve.","answer":{"display":"Sgt. Pepper's Lonely Hearts Club Band","variants":["sgt pepper","sergeant pepper"]}}]}`},
	{Role: "user", Content: `Topic: "Wine"`},
	{Role: "assistant", Content: `{"questions":[` +
		`{"points":100,"question":"Which grape is Chianti primarily made from?","hint":"Italy's most planted red grape.","answer":{"display":"Sangiovese","variants":[]}},` +
		`{"points":200,"question":"What is the term for the year printed on a wine label?","hint":"It refers to the harvest.","answer":{"display":"Vintage","variants":["the vintage"]}},` +
		`{"points":300,"question":"Which French region produces Chablis?","hint":"Its reds are made from Pinot Noir.","answer":{"display":"Burgundy","variants":["bourgogne"]}},` +
		`{"points":400,"question":"How many liters does a standard Bordeaux barrique hold?","hint":"A bit less than a hogshead.","answer":{"display":"225","variants":["225 liters","225l"]}}]}`},
}

func questionUserPrompt(topic string) string {
	return fmt.Sprintf("Topic: %q", topic)
}

const namerSystemPrompt = `You name trivia categories for a party game scoreboard. Given a raw topic a
player typed, produce a short display name: two to four words, title case,
unambiguous, no obscure wordplay. Keep the player's meaning; just polish it.
Respond with the name only, no quotes, no explanation.`

func namerUserPrompt(topic string) string {
	return fmt.Sprintf("Raw topic: %q", topic)
}
