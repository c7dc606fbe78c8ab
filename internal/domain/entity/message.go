package entity

import "time"

type Message struct {
	ID           int64     `json:"id" firestore:"id"`
	MatchID      int64     `json:"match_id" firestore:"matchId"`
	TournamentID int64     `json:"tournament_id" firestore:"tournamentId"`
	SenderID     int64     `json:"sender_id" firestore:"senderId"`
	Side         Side      `json:"side" firestore:"side"`
	Body         string    `json:"body" firestore:"body"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	ExpiresAt    time.Time `json:"expires_at" firestore:"expiresAt"`
}
