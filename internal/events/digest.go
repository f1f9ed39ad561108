package events

var DigestSubscribedTopic = "DigestSubscribedEvent"

type DigestSubscribed struct {
	RecipientID int64
}

var DigestUnsubscribedTopic = "DigestUnsubscribedEvent"

type DigestUnsubscribed struct {
	RecipientID int64
}
