package entity

// UnknownDisplayName is shown for senders the identity source cannot resolve.
const UnknownDisplayName = "Unknown player"

type User struct {
	ID          int64  `json:"id" firestore:"id" yaml:"id"`
	DisplayName string `json:"display_name" firestore:"displayName" yaml:"display_name"`
}
