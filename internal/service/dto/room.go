package dto

// RoomSummary 是房间在全局房间列表（activeRooms）里的快照
type RoomSummary struct {
	Users       int  `json:"users"`
	GameStarted bool `json:"gameStarted"`
}

// ValidityState 描述当前单词的词典校验结果
// 不足三个字母的单词不做校验，IsChecked 为 false
type ValidityState struct {
	IsChecked bool `json:"isChecked"`
	IsValid   bool `json:"isValid"`
}
