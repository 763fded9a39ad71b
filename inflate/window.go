package inflate

// window is the 32 KiB circular history buffer that back-references read
// from once they reach behind the caller's own output buffer.
type window struct {
	buf   [windowSize]byte
	end   int // next write position
	count int // valid bytes currently held, saturates at windowSize
}

func (w *window) reset() {
	w.end = 0
	w.count = 0
}

// preset installs a dictionary, most recent bytes last, as if it were the
// output of a prior call. Only the trailing windowSize bytes matter.
func (w *window) preset(dict []byte) {
	if len(dict) > windowSize {
		dict = dict[len(dict)-windowSize:]
	}
	n := copy(w.buf[:], dict)
	w.end = n % windowSize
	w.count = n
}

// append copies the last min(len(produced), windowSize) bytes of a just
// finished output run into the window, wrapping at the capacity.
func (w *window) append(produced []byte) {
	if len(produced) > windowSize {
		produced = produced[len(produced)-windowSize:]
	}
	n := len(produced)
	if n == 0 {
		return
	}
	first := windowSize - w.end
	if first > n {
		first = n
	}
	copy(w.buf[w.end:], produced[:first])
	copy(w.buf[0:], produced[first:])
	w.end = (w.end + n) % windowSize
	w.count += n
	if w.count > windowSize {
		w.count = windowSize
	}
}
