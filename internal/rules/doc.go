// Package rules is the card legality oracle shared by both games.
//
// Every function here is pure and total: it never mutates its arguments and
// returns a definite answer for any input. The durak and joker state machines
// and every bot policy call these predicates; nothing else decides legality.
//
// Attack-defense (durak):
//
//	rules.CanBeat(attack, defense, trump)
//	rules.CanAddToAttack(card, table)
//	rules.HasAttackRoom(table, defenderHandSize, maxAttacks)
//
// Bid-trick (joker):
//
//	rules.CanPlayCard(card, hand, trump, trick)
//	rules.TrickWinner(trick, trump)
package rules
