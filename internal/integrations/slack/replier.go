package slackbot

import "github.com/slack-go/slack"

// Client adapts *slack.Client to Replier and to the digest poster.
type Client struct {
	api *slack.Client
}

func NewClient(api *slack.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Reply(channelID, userID, text string, blocks ...slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	_, err := c.api.PostEphemeral(channelID, userID, opts...)
	return err
}

func (c *Client) Post(channelID, text string) error {
	_, _, err := c.api.PostMessage(channelID, slack.MsgOptionText(text, false))
	return err
}
