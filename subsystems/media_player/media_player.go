package media_player

import "github.com/Artiqlate/nicosia/utils"

const (
	MediaPlayerSubsystemName = "mp"
)

func MPMethod(method string) string {
	return utils.GenerateMethod(MediaPlayerSubsystemName, method)
}
