package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core"
)

func TestConsoleService_sendMessage(t *testing.T) {
	svc := NewConsoleServiceMock()

	t.Run("complete message is rendered and recorded", func(t *testing.T) {
		ClearSentMessages()

		svc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: "Awe", Address: "awe@test.cd"}},
			Subject: "Hello",
			BodyStr: "Moyo!",
		})

		require.Len(t, SentMessages, 1)
		assert.Equal(t, "Moyo!", SentMessages[0].TextContent)
	})

	t.Run("message without recipients is skipped", func(t *testing.T) {
		ClearSentMessages()

		svc.SendMessages(&core.EmailMessage{Subject: "Hello", BodyStr: "Moyo!"})

		assert.Empty(t, SentMessages)
	})

	t.Run("message without content is skipped", func(t *testing.T) {
		ClearSentMessages()

		svc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: "Awe", Address: "awe@test.cd"}},
			Subject: "Hello",
		})

		assert.Empty(t, SentMessages)
	})
}
