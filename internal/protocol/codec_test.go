package protocol

import (
	"testing"

	"github.com/sharetube/client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	data, err := Encode(StateChange{State: domain.Play, Time: 1000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"SetState":{"state":"Play","time":1000}}`, string(data))

	data, err = Encode(SeekRequest{Duration: 42, Time: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Seek":{"duration":42,"time":5}}`, string(data))

	data, err = Encode(Hello{Name: "alice", Avatar: 3, Time: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Hello":{"name":"alice","avatar":3,"time":7}}`, string(data))

	data, err = Encode(StateReport{
		Duration:     12.5,
		DurationTime: 100,
		State:        domain.Pause,
		StateTime:    90,
		Buffered:     3,
		Time:         110,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"State":{"duration":12.5,"duration_time":100,"state":"Pause","state_time":90,"buffered":3,"time":110}}`, string(data))

	data, err = Encode(Goodbye{})
	require.NoError(t, err)
	assert.Equal(t, `"Goodbye"`, string(data))
}

func TestDecodeRoomState(t *testing.T) {
	msg, err := Decode([]byte(`{"RoomState":{
		"user_id": 3,
		"participants": [{"user_id": 1, "name": "bob", "avatar": 2, "badges": [7, 8]}],
		"current_stream": {
			"slug": "movie",
			"name": "Movie",
			"streams": [{"quality": 720, "playlist": "720.m3u8"}],
			"duration": 61.5,
			"state": "Play"
		}
	}}`))
	require.NoError(t, err)

	rs, ok := msg.(RoomState)
	require.True(t, ok)
	assert.Equal(t, domain.UserID(3), rs.UserID)
	require.Len(t, rs.Participants, 1)
	assert.Equal(t, []domain.BadgeID{7, 8}, rs.Participants[0].Badges)
	require.NotNil(t, rs.CurrentStream)
	assert.Equal(t, "movie", rs.CurrentStream.Slug)
	assert.Equal(t, domain.Play, rs.CurrentStream.State)
	assert.Equal(t, 61.5, rs.CurrentStream.Duration)
}

func TestDecodeRoomStateWithoutStream(t *testing.T) {
	msg, err := Decode([]byte(`{"RoomState":{"user_id":0,"participants":[],"current_stream":null}}`))
	require.NoError(t, err)
	assert.Nil(t, msg.(RoomState).CurrentStream)
}

func TestDecodeVariants(t *testing.T) {
	cases := []struct {
		in   string
		want Inbound
	}{
		{`"Ping"`, Ping{}},
		{`{"ByeParticipant":{"user_id":7}}`, ByeParticipant{UserID: 7}},
		{`{"DoSeek":{"user":2,"duration":42}}`, DoSeek{User: 2, Duration: 42}},
		{`{"SetState":{"user":2,"state":"Pause"}}`, SetState{User: 2, State: domain.Pause}},
		{`{"SetState":{"user":2,"state":"Rewind"}}`, SetState{User: 2, State: "Rewind"}},
		{`{"NewParticipant":{"user_id":7,"name":"eve","avatar":1,"badges":[]}}`, NewParticipant{UserID: 7, Name: "eve", Avatar: 1, Badges: []domain.BadgeID{}}},
		{`{"ChatMessage":{"from":1,"msg":"hi"}}`, ChatMessage{From: 1, Msg: "hi"}},
		{`{"Error":"room is full"}`, ServerError{Message: "room is full"}},
		{`{"Whatever":{"a":1}}`, Unknown{Name: "Whatever"}},
		{`"Goodbye"`, Unknown{Name: "Goodbye"}},
	}

	for _, c := range cases {
		got, err := Decode([]byte(c.in))
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestDecodeRoomUpdate(t *testing.T) {
	msg, err := Decode([]byte(`{"RoomUpdate":{"participants":[
		{"user_id":1,"duration":10,"buffered":4.5,"state":"Play","badges":[4]}
	]}}`))
	require.NoError(t, err)

	ru := msg.(RoomUpdate)
	require.Len(t, ru.Participants, 1)
	assert.Equal(t, domain.ParticipantUpdate{
		UserID:   1,
		Duration: 10,
		Buffered: 4.5,
		State:    domain.Play,
		Badges:   []domain.BadgeID{4},
	}, ru.Participants[0])
}

func TestDecodeNewStream(t *testing.T) {
	msg, err := Decode([]byte(`{"NewStream":{"slug":"s","name":"n","streams":[{"quality":1,"playlist":"p.m3u8"}],"duration":0,"state":"Pause"}}`))
	require.NoError(t, err)
	assert.Equal(t, "s", msg.(NewStream).Stream.Slug)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]error{
		``:                                    ErrMalformed,
		`{not json`:                           ErrMalformed,
		`{"DoSeek":{"user":"x"}}`:             ErrMalformed,
		`{"DoSeek":{"user":1},"SetState":{}}`: ErrMalformed,
		`{"DoSeek":{"user":1,"duration":-3}}`: ErrInvalid,
		`{"RoomUpdate":{"participants":[{"user_id":1,"duration":-1}]}}`: ErrInvalid,
		`{"NewStream":{"slug":"","streams":[]}}`:                        ErrInvalid,
	}

	for in, want := range cases {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, want, in)
	}
}
