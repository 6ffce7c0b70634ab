package services

type Level string

const (
	Success Level = "success"
	Failure Level = "error"
	Info    Level = "info"
)

// Notice is one toast shown after an action.
type Notice struct {
	Level   Level  `json:"type"`
	Message string `json:"message"`
}

// Mutation is the answer to a write: the upstream value, the notices to
// show, and the page to go to next.
type Mutation[T any] struct {
	Value    T        `json:"value"`
	Notices  []Notice `json:"notices"`
	Redirect string   `json:"redirectTo,omitempty"`
}

func done[T any](v T, redirect string, notices ...Notice) Mutation[T] {
	return Mutation[T]{Value: v, Notices: notices, Redirect: redirect}
}

func success(msg string) Notice {
	return Notice{Level: Success, Message: msg}
}

func info(msg string) Notice {
	return Notice{Level: Info, Message: msg}
}

// Toast messages.
const (
	MsgOverpay          = "Qoldiqdan ortiqcha to'lay olmaysiz"
	MsgPaid             = "To'lov muvaffaqiyatli qabul qilindi!"
	MsgPaymentDeleted   = "To'lov muvaffaqiyatli o'chirildi"
	MsgDebtSaved        = "Qarz muvaffaqiyatli saqlandi!"
	MsgDebtDeleted      = "Qarz muvaffaqiyatli o'chirildi"
	MsgReceivableAdded  = "Yangi haq muvaffaqiyatli qo'shildi!"
	MsgReceivableSaved  = "Haqdorlik muvaffaqiyatli saqlandi!"
	MsgReceivableDelete = "Haqdorlik muvaffaqiyatli o'chirildi"
	MsgExpenseSaved     = "Xarajat saqlandi!"
	MsgExpenseDeleted   = "Xarajat muvaffaqiyatli o'chirildi"
	MsgCategorySaved    = "Yangi %q toifasi saqlandi!"
	MsgLoggedIn         = "Muvaffaqiyatli kirildi!"
	MsgRegistered       = "Muvaffaqiyatli ro'yxatdan o'tdingiz!"
	MsgLoggedOut        = "Tizimdan chiqildi"
	MsgProfileUpdated   = "Profil muvaffaqiyatli yangilandi!"
	MsgUserBlocked      = "Foydalanuvchi bloklandi"
	MsgUserUnblocked    = "Foydalanuvchi blokdan chiqarildi"
)
