package models

type WellknownListName string

const (
	WellknownListNone         WellknownListName = "none"
	WellknownListDefault      WellknownListName = "defaultList"
	WellknownListFlaggedEmail WellknownListName = "flaggedEmails"
	WellknownListUnknown      WellknownListName = "unknownFutureValue"
)

var WellknownListNames = []WellknownListName{
	WellknownListNone,
	WellknownListDefault,
	WellknownListFlaggedEmail,
	WellknownListUnknown,
}
