package handler

type workTypeRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type voltageRequest struct {
	Volt float64 `json:"volt" validate:"required,gt=0"`
}
