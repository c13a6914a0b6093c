// Package risk classifies findings into legal, social and technical risks
// and turns the result into advisory suggestions.
//
// Classification matches finding kinds, never rendered text, so rewording a
// finding cannot change which risks it triggers.
package risk
