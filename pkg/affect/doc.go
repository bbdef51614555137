// Package affect implements an affective state engine for a simulated
// character.
//
// Each conversational turn runs a fixed pipeline over a private copy of the
// state: appraisal of the message, memory triggers, trauma activation,
// emotional contagion, the bounded state update, regulation and defenses, the
// relational update, memory formation, growth and trait evolution, the
// attachment update, conflict resolution and identity integration. The result
// is a Guidance value describing how the character feels and presents, for a
// downstream text generator to act on.
//
// The package performs no I/O. Snapshot and Restore expose the full state for
// persistence, and randomness and time are injectable:
//
//	eng := affect.New(
//		affect.WithRand(affect.NewSeededRand(42)),
//		affect.WithCharacterName("alyssa"),
//	)
//	g := eng.ProcessInteraction("I'm here for you", affect.Context{})
//	fmt.Println(g.Attitude, g.Tone)
package affect
